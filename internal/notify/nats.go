package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	ToastSubject  = "fastchannel.toasts"
	UploadSubject = "fastchannel.uploads"
)

// Publisher is the part of *nats.Conn used here.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSNotifier publishes toasts and workflow events as JSON.
type NATSNotifier struct {
	pub    Publisher
	logger *slog.Logger
}

func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("fastchannel-console"))
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}
	return nc, nil
}

func NewNATSNotifier(pub Publisher, logger *slog.Logger) *NATSNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NATSNotifier{pub: pub, logger: logger}
}

func (n *NATSNotifier) Notify(_ context.Context, t Toast) {
	if err := n.PublishJSON(ToastSubject, t); err != nil {
		n.logger.Warn("failed to publish toast", "error", err)
	}
}

// PublishUploadEvent sends an upload lifecycle event on
// fastchannel.uploads.<kind>.
func (n *NATSNotifier) PublishUploadEvent(kind string, payload any) {
	if err := n.PublishJSON(UploadSubject+"."+kind, payload); err != nil {
		n.logger.Warn("failed to publish upload event", "kind", kind, "error", err)
	}
}

func (n *NATSNotifier) PublishJSON(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", subject, err)
	}
	return n.pub.Publish(subject, data)
}
