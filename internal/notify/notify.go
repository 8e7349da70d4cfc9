// Package notify delivers user-facing toasts. Delivery is fire-and-forget:
// callers never wait for or see a failure.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

type Severity string

const (
	SeverityInfo        Severity = "info"
	SeverityDestructive Severity = "destructive"
)

type Toast struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type Notifier interface {
	Notify(ctx context.Context, t Toast)
}

// LogNotifier writes toasts to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, t Toast) {
	level := slog.LevelInfo
	if t.Severity == SeverityDestructive {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "toast", "title", t.Title, "description", t.Description, "severity", t.Severity)
}

// Multi fans a toast out to every notifier.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, t Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, t)
		}
	}
}

// Nop drops every toast.
type Nop struct{}

func (Nop) Notify(context.Context, Toast) {}

// Recorder keeps toasts in memory. The API exposes the most recent ones and
// tests assert on them.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
	limit  int
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(_ context.Context, t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
	if r.limit > 0 && len(r.toasts) > r.limit {
		r.toasts = r.toasts[len(r.toasts)-r.limit:]
	}
}

func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}
