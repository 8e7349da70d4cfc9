// Package simulator drives upload records from 0 to 100 percent on a timer,
// then completes, promotes and clears them. Each record runs in its own
// goroutine with its own cancel handle.
package simulator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/logging"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

const (
	DefaultTickInterval = 800 * time.Millisecond
	DefaultSettleDelay  = 500 * time.Millisecond
	DefaultDisplayDelay = 2 * time.Second
	DefaultIncrementMin = 5
	DefaultIncrementMax = 20

	settingPaused = "simulator.paused"
)

// Queue is the slice of uploads.Queue the simulator drives.
type Queue interface {
	Get(ctx context.Context, id int64) (uploads.Record, error)
	List(ctx context.Context) ([]uploads.Record, error)
	MarkSimulationStarted(ctx context.Context, id int64) (uploads.Record, error)
	UpdateProgress(ctx context.Context, id int64, progress int) (uploads.Record, error)
	Complete(ctx context.Context, id int64) (uploads.Record, bool, error)
	Promote(ctx context.Context, id int64) (uploads.LibraryEntry, bool, error)
	Remove(ctx context.Context, id int64) error
}

// Metrics receives lifecycle counts. metrics.Workflow implements it.
type Metrics interface {
	UploadStarted()
	ProgressTick()
	UploadCompleted()
	UploadPromoted()
	UploadCancelled()
	SetInFlight(n int)
}

type EventKind string

const (
	EventProgress  EventKind = "progress"
	EventCompleted EventKind = "completed"
	EventPromoted  EventKind = "promoted"
	EventRemoved   EventKind = "removed"
	EventCancelled EventKind = "cancelled"
)

type Event struct {
	Kind   EventKind
	Record uploads.Record
	Entry  *uploads.LibraryEntry
}

type Options struct {
	TickInterval time.Duration
	SettleDelay  time.Duration
	DisplayDelay time.Duration
	IncrementMin int
	IncrementMax int

	// Increment overrides the random step.
	Increment func() int
	Observer  func(Event)
	Metrics   Metrics
	Settings  store.Settings
	Logger    *slog.Logger
}

type Simulator struct {
	queue Queue
	opts  Options

	logger *slog.Logger

	base   context.Context
	stop   context.CancelFunc
	mu     sync.Mutex
	active map[int64]context.CancelFunc
	wg     sync.WaitGroup
	paused atomic.Bool
}

func New(queue Queue, opts Options) *Simulator {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if opts.DisplayDelay < 0 {
		opts.DisplayDelay = 0
	}
	if opts.IncrementMin <= 0 {
		opts.IncrementMin = DefaultIncrementMin
	}
	if opts.IncrementMax <= 0 {
		opts.IncrementMax = DefaultIncrementMax
	}
	if opts.IncrementMin > opts.IncrementMax {
		opts.IncrementMin, opts.IncrementMax = opts.IncrementMax, opts.IncrementMin
	}
	if opts.Increment == nil {
		lo, hi := opts.IncrementMin, opts.IncrementMax
		opts.Increment = func() int { return lo + rand.IntN(hi-lo+1) }
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	base, stop := context.WithCancel(context.Background())
	return &Simulator{
		queue:  queue,
		opts:   opts,
		logger: logger,
		base:   base,
		stop:   stop,
		active: make(map[int64]context.CancelFunc),
	}
}

// Start begins simulating a record. Calling it again for an id that is
// already running does nothing.
func (s *Simulator) Start(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.base.Err() != nil {
		return
	}
	if _, ok := s.active[id]; ok {
		return
	}

	ctx, cancel := context.WithCancel(s.base)
	s.active[id] = cancel
	s.reportInFlight()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(id)
		s.run(ctx, id)
	}()
}

// Cancel stops a record's timer and removes it from the queue. No library
// entry is created for a record cancelled before completion.
func (s *Simulator) Cancel(ctx context.Context, id int64) error {
	s.mu.Lock()
	if cancel, ok := s.active[id]; ok {
		cancel()
		delete(s.active, id)
		s.reportInFlight()
	}
	s.mu.Unlock()

	rec, getErr := s.queue.Get(ctx, id)
	if err := s.queue.Remove(ctx, id); err != nil {
		return err
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.UploadCancelled()
	}
	if getErr == nil {
		s.emit(Event{Kind: EventCancelled, Record: rec})
	}
	s.logger.Info("upload cancelled", "upload_id", id)
	return nil
}

// Recover restarts every persisted uploading record and finishes any
// completed record a previous run left behind.
func (s *Simulator) Recover(ctx context.Context) (int, error) {
	records, err := s.queue.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range records {
		s.Start(r.ID)
	}
	if len(records) > 0 {
		s.logger.Info("recovered uploads", "count", len(records))
	}
	return len(records), nil
}

func (s *Simulator) Pause() {
	s.paused.Store(true)
	s.persistPaused(true)
	s.logger.Info("upload simulator paused")
}

func (s *Simulator) Resume() {
	s.paused.Store(false)
	s.persistPaused(false)
	s.logger.Info("upload simulator resumed")
}

func (s *Simulator) IsPaused() bool {
	return s.paused.Load()
}

// LoadPauseState restores the pause flag saved by a previous run.
func (s *Simulator) LoadPauseState(ctx context.Context) error {
	if s.opts.Settings == nil {
		return nil
	}
	v, err := s.opts.Settings.GetConfig(ctx, settingPaused)
	if err != nil {
		return err
	}
	paused, _ := strconv.ParseBool(v)
	s.paused.Store(paused)
	return nil
}

func (s *Simulator) persistPaused(paused bool) {
	if s.opts.Settings == nil {
		return
	}
	if err := s.opts.Settings.SetConfig(context.Background(), settingPaused, strconv.FormatBool(paused)); err != nil {
		s.logger.Warn("failed to persist pause state", "error", err)
	}
}

// Active returns the number of records currently being simulated.
func (s *Simulator) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Shutdown cancels every running record and waits for the goroutines.
// Records stay in the queue and are picked up by Recover on next start.
func (s *Simulator) Shutdown() {
	s.mu.Lock()
	s.stop()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Simulator) release(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[id]; ok {
		delete(s.active, id)
		s.reportInFlight()
	}
}

// reportInFlight must be called with s.mu held.
func (s *Simulator) reportInFlight() {
	if s.opts.Metrics != nil {
		s.opts.Metrics.SetInFlight(len(s.active))
	}
}

func (s *Simulator) run(ctx context.Context, id int64) {
	logger := logging.WithUploadID(s.logger, id)

	rec, err := s.queue.MarkSimulationStarted(ctx, id)
	if err != nil {
		s.stopOnError(logger, "start", err)
		return
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.UploadStarted()
	}

	if rec.Status == uploads.StatusUploading && rec.Progress < 100 {
		if !s.tick(ctx, logger, rec) {
			return
		}
	}

	if !sleep(ctx, s.opts.SettleDelay) {
		return
	}
	s.finish(ctx, logger, id)
}

// tick advances progress until it reaches 100. It returns false when the
// record went away or the context was cancelled.
func (s *Simulator) tick(ctx context.Context, logger *slog.Logger, rec uploads.Record) bool {
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	progress := rec.Progress
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if s.paused.Load() {
				continue
			}

			next, err := s.queue.UpdateProgress(ctx, rec.ID, progress+s.opts.Increment())
			if err != nil {
				s.stopOnError(logger, "tick", err)
				return false
			}
			progress = next.Progress
			if s.opts.Metrics != nil {
				s.opts.Metrics.ProgressTick()
			}
			s.emit(Event{Kind: EventProgress, Record: next})
			logger.Debug("upload progress", "progress", progress)

			if progress >= 100 {
				return true
			}
		}
	}
}

func (s *Simulator) finish(ctx context.Context, logger *slog.Logger, id int64) {
	rec, transitioned, err := s.queue.Complete(ctx, id)
	if err != nil {
		s.stopOnError(logger, "complete", err)
		return
	}
	if transitioned {
		if s.opts.Metrics != nil {
			s.opts.Metrics.UploadCompleted()
		}
		s.emit(Event{Kind: EventCompleted, Record: rec})
		logger.Info("upload completed")
	}

	entry, created, err := s.queue.Promote(ctx, id)
	if err != nil {
		s.stopOnError(logger, "promote", err)
		return
	}
	if created {
		if s.opts.Metrics != nil {
			s.opts.Metrics.UploadPromoted()
		}
		s.emit(Event{Kind: EventPromoted, Record: rec, Entry: &entry})
	}

	if !sleep(ctx, s.opts.DisplayDelay) {
		return
	}

	if err := s.queue.Remove(ctx, id); err != nil {
		s.stopOnError(logger, "remove", err)
		return
	}
	s.emit(Event{Kind: EventRemoved, Record: rec})
	logger.Info("upload cleared from queue")
}

func (s *Simulator) stopOnError(logger *slog.Logger, step string, err error) {
	switch {
	case errors.Is(err, uploads.ErrNotFound):
		logger.Debug("upload gone, stopping", "step", step)
	case errors.Is(err, context.Canceled):
	default:
		logger.Error("upload simulation failed", "step", step, "error", err)
	}
}

func (s *Simulator) emit(e Event) {
	if s.opts.Observer != nil {
		s.opts.Observer(e)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
