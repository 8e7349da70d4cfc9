package campaign

import (
	"context"
	"log/slog"
)

// Navigator is asked to move the user elsewhere once a step completes. The
// core never routes by itself.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type NavigatorFunc func(ctx context.Context, path string)

func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

// LogNavigator only logs the request; used when no UI is attached.
type LogNavigator struct {
	Logger *slog.Logger
}

func (n LogNavigator) Navigate(ctx context.Context, path string) {
	if n.Logger != nil {
		n.Logger.InfoContext(ctx, "navigate", "path", path)
	}
}
