package media

import (
	"context"
	"sync"

	"github.com/fastchannel/fastchannel-console/internal/notify"
)

// Selector holds the currently previewed clip. Every candidate goes
// through validation and the duration gate; a rejected candidate leaves the
// previous selection in place.
type Selector struct {
	gate            *Gate
	notifier        notify.Notifier
	maxBytes        int64
	defaultDuration string

	mu       sync.Mutex
	current  *Clip
	onReject func(reason string)
}

func NewSelector(gate *Gate, notifier notify.Notifier, maxBytes int64, defaultDuration string) *Selector {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Selector{
		gate:            gate,
		notifier:        notifier,
		maxBytes:        maxBytes,
		defaultDuration: defaultDuration,
	}
}

// OnReject registers a hook called with the reason code of each rejection.
func (s *Selector) OnReject(fn func(reason string)) {
	s.mu.Lock()
	s.onReject = fn
	s.mu.Unlock()
}

func (s *Selector) Select(ctx context.Context, clip Clip) (Clip, error) {
	if clip.Duration == "" {
		clip.Duration = s.defaultDuration
	}
	if err := s.gate.Check(clip.Duration); err != nil {
		return Clip{}, s.reject(ctx, err)
	}

	s.mu.Lock()
	s.current = &clip
	s.mu.Unlock()
	return clip, nil
}

func (s *Selector) SelectFile(ctx context.Context, f LocalFile) (Clip, error) {
	clip, err := FromLocalFile(f, s.maxBytes, s.defaultDuration)
	if err != nil {
		return Clip{}, s.reject(ctx, err)
	}
	return s.Select(ctx, clip)
}

func (s *Selector) SelectURL(ctx context.Context, rawURL string) (Clip, error) {
	return s.Select(ctx, FromURL(rawURL, s.defaultDuration))
}

func (s *Selector) Current() (Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Clip{}, false
	}
	return *s.current, true
}

func (s *Selector) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *Selector) reject(ctx context.Context, err error) error {
	s.notifier.Notify(ctx, RejectionToast(err))
	s.mu.Lock()
	hook := s.onReject
	s.mu.Unlock()
	if hook != nil {
		hook(RejectionReason(err))
	}
	return err
}
