package media

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fastchannel/fastchannel-console/internal/timecode"
)

var ErrDurationMismatch = errors.New("duration mismatch")

// Gate holds a session's reference duration. With no reference every
// duration passes.
type Gate struct {
	mu        sync.RWMutex
	reference string
}

func NewGate(reference string) *Gate {
	g := &Gate{}
	if reference != "" {
		g.reference = timecode.Normalize(reference)
	}
	return g
}

func (g *Gate) Reference() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.reference, g.reference != ""
}

// Establish sets the reference if none is set yet. It reports whether the
// reference was set by this call.
func (g *Gate) Establish(duration string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.reference != "" || duration == "" {
		return false
	}
	g.reference = timecode.Normalize(duration)
	return true
}

// Check compares duration with the reference after normalization.
func (g *Gate) Check(duration string) error {
	ref, ok := g.Reference()
	if !ok {
		return nil
	}
	if !timecode.Equal(ref, duration) {
		return fmt.Errorf("%w: expected %s, got %s", ErrDurationMismatch, ref, timecode.Normalize(duration))
	}
	return nil
}
