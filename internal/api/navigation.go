package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
)

type navigationKey struct{}

type navigation struct {
	mu   sync.Mutex
	path string
}

func (n *navigation) set(path string) {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
}

func (n *navigation) get() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Navigator records navigation requests on the request being served so the
// handler can return them as "redirect". Outside a request it only logs.
func Navigator(logger *slog.Logger) campaign.Navigator {
	return campaign.NavigatorFunc(func(ctx context.Context, path string) {
		if n, ok := ctx.Value(navigationKey{}).(*navigation); ok {
			n.set(path)
			return
		}
		if logger != nil {
			logger.Info("navigate", "path", path)
		}
	})
}

func NavigationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), navigationKey{}, &navigation{})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// redirectFrom returns the path requested while serving r, if any.
func redirectFrom(r *http.Request) string {
	if n, ok := r.Context().Value(navigationKey{}).(*navigation); ok {
		return n.get()
	}
	return ""
}
