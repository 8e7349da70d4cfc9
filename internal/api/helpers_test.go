package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/metrics"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/simulator"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

type testEnv struct {
	router    http.Handler
	store     *store.MemoryStore
	queue     *uploads.Queue
	sim       *simulator.Simulator
	campaigns *campaign.Service
	toasts    *notify.Recorder
	metrics   *metrics.Workflow
}

// newTestEnv wires the full stack on a memory store. The simulator ticks
// hourly so records stay in flight for the duration of a test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemoryStore()
	q := uploads.NewQueue(st, logger)
	sim := simulator.New(q, simulator.Options{
		TickInterval: time.Hour,
		Settings:     st,
		Logger:       logger,
	})
	q.SetStarter(sim)
	t.Cleanup(sim.Shutdown)

	toasts := notify.NewRecorder(50)
	m := metrics.New()
	svc := campaign.NewService(st, q, campaign.Options{
		Notifier:  toasts,
		Navigator: Navigator(logger),
		OnReject:  m.Rejected,
		Logger:    logger,
	})

	cfg := ServerConfig{
		Campaigns: svc,
		Queue:     q,
		Simulator: sim,
		Metrics:   m,
		Toasts:    toasts,
		Logger:    logger,
		StartTime: time.Now(),
	}

	return &testEnv{
		router:    NewRouter(cfg),
		store:     st,
		queue:     q,
		sim:       sim,
		campaigns: svc,
		toasts:    toasts,
		metrics:   m,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = "127.0.0.1:50000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// seedLibrary pushes titles through the queue into the library without
// waiting on the simulator.
func (e *testEnv) seedLibrary(t *testing.T, titles ...string) []uploads.LibraryEntry {
	t.Helper()
	ctx := t.Context()

	for _, title := range titles {
		rec, err := e.queue.Enqueue(ctx, uploads.NewUpload{Title: title, Duration: "00:30"})
		if err != nil {
			t.Fatalf("Enqueue(%q): %v", title, err)
		}
		if _, _, err := e.queue.Complete(ctx, rec.ID); err != nil {
			t.Fatalf("Complete(%q): %v", title, err)
		}
		if _, _, err := e.queue.Promote(ctx, rec.ID); err != nil {
			t.Fatalf("Promote(%q): %v", title, err)
		}
		if err := e.queue.Remove(ctx, rec.ID); err != nil {
			t.Fatalf("Remove(%q): %v", title, err)
		}
	}

	library, err := e.queue.Library(ctx)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	return library
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rr.Code, want, rr.Body.String())
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
