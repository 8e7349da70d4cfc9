//go:build integration

package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/simulator"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/trim"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

const waitTimeout = 5 * time.Second

// world holds everything one scenario touches. It is rebuilt before each
// scenario.
type world struct {
	store  *store.MemoryStore
	queue  *uploads.Queue
	sim    *simulator.Simulator
	toasts *notify.Recorder

	mu     sync.Mutex
	events []simulator.Event
	lastID int64

	editor  *trim.Editor
	editErr error

	gate      *media.Gate
	selector  *media.Selector
	selectErr error

	moveErr error

	campaigns *campaign.Service
	session   *campaign.Session
}

// SharedWorld is reset before each scenario via Before hook
var SharedWorld *world

func getWorld() *world {
	return SharedWorld
}

func InitializeWorld(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		w := &world{
			store:  store.NewMemoryStore(),
			toasts: notify.NewRecorder(20),
		}
		w.boot()
		SharedWorld = w
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedWorld != nil && SharedWorld.sim != nil {
			SharedWorld.sim.Shutdown()
		}
		SharedWorld = nil
		return c, nil
	})

	ctx.Step(`^the upload queue should be empty$`, theUploadQueueShouldBeEmpty)
}

// boot wires a fresh queue and a fast simulator onto the world's store, the
// way the console does at startup.
func (w *world) boot() {
	w.queue = uploads.NewQueue(w.store, nil)
	w.sim = simulator.New(w.queue, simulator.Options{
		TickInterval: 5 * time.Millisecond,
		SettleDelay:  5 * time.Millisecond,
		DisplayDelay: 5 * time.Millisecond,
		Increment:    func() int { return 25 },
		Observer:     w.observe,
		Settings:     w.store,
	})
	w.queue.SetStarter(w.sim)
}

func (w *world) observe(e simulator.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, e)
}

func (w *world) eventsFor(id int64) []simulator.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []simulator.Event
	for _, e := range w.events {
		if e.Record.ID == id {
			out = append(out, e)
		}
	}
	return out
}

func (w *world) waitForEvent(id int64, kind simulator.EventKind) error {
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		for _, e := range w.eventsFor(id) {
			if e.Kind == kind {
				return nil
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("upload %d: no %s event within %s", id, kind, waitTimeout)
}

func theUploadQueueShouldBeEmpty() error {
	records, err := getWorld().queue.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) != 0 {
		return fmt.Errorf("expected empty upload queue, got %d records", len(records))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
