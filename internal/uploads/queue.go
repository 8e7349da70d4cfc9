// Package uploads owns the upload queue and the video library. Both are
// stored as whole JSON documents in a store.Blobs collaborator; every
// read-modify-write runs under one mutex so concurrent simulator ticks and
// user actions never lose updates within a process. Across processes the
// last writer wins.
package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fastchannel/fastchannel-console/internal/store"
)

var (
	ErrNotFound        = errors.New("upload record not found")
	ErrNotCompleted    = errors.New("upload record not completed")
	ErrIndexOutOfRange = errors.New("library index out of range")
)

// Starter begins progress simulation for a newly enqueued record.
type Starter interface {
	Start(id int64)
}

type Queue struct {
	mu      sync.Mutex
	blobs   store.Blobs
	logger  *slog.Logger
	starter Starter
	now     func() time.Time
	lastID  int64

	defaultDuration string
}

func NewQueue(blobs store.Blobs, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{
		blobs:           blobs,
		logger:          logger,
		now:             time.Now,
		defaultDuration: DefaultDuration,
	}
}

// SetStarter registers the simulator. Must be called before Enqueue.
func (q *Queue) SetStarter(s Starter) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.starter = s
}

// SetDefaultDuration changes the duration given to library entries whose
// record carried none.
func (q *Queue) SetDefaultDuration(d string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if d != "" {
		q.defaultDuration = d
	}
}

func (q *Queue) Enqueue(ctx context.Context, in NewUpload) (Record, error) {
	q.mu.Lock()

	records, err := q.loadQueue(ctx)
	if err != nil {
		q.mu.Unlock()
		return Record{}, err
	}
	library, err := q.loadLibrary(ctx)
	if err != nil {
		q.mu.Unlock()
		return Record{}, err
	}

	now := q.now()
	id := q.nextID(now, records, library)
	rec := Record{
		ID:               id,
		Title:            in.Title,
		Duration:         in.Duration,
		OriginalDuration: in.OriginalDuration,
		TrimmedDuration:  in.TrimmedDuration,
		Source:           in.Source,
		Progress:         0,
		Status:           StatusUploading,
		Timestamp:        now,
	}
	records = append(records, rec)

	if err := q.saveQueue(ctx, records); err != nil {
		q.mu.Unlock()
		return Record{}, err
	}
	starter := q.starter
	q.mu.Unlock()

	q.logger.Info("upload enqueued", "upload_id", id, "title", rec.Title, "duration", rec.Duration)

	if starter != nil {
		starter.Start(id)
	}
	return rec, nil
}

// nextID returns a creation-time id strictly greater than any id seen so
// far, in this process or in persisted state.
func (q *Queue) nextID(now time.Time, records []Record, library []LibraryEntry) int64 {
	floor := q.lastID
	for _, r := range records {
		if r.ID > floor {
			floor = r.ID
		}
	}
	for _, e := range library {
		if e.ID > floor {
			floor = e.ID
		}
	}

	id := now.UnixMilli()
	if id <= floor {
		id = floor + 1
	}
	q.lastID = id
	return id
}

// UpdateProgress applies a progress value clamped to [0,100]. Progress
// never moves backwards.
func (q *Queue) UpdateProgress(ctx context.Context, id int64, progress int) (Record, error) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return q.mutate(ctx, id, func(r *Record) bool {
		if progress <= r.Progress {
			return false
		}
		r.Progress = progress
		return true
	})
}

// MarkSimulationStarted flags a record so a restart knows it was already
// picked up.
func (q *Queue) MarkSimulationStarted(ctx context.Context, id int64) (Record, error) {
	return q.mutate(ctx, id, func(r *Record) bool {
		if r.SimulationStarted {
			return false
		}
		r.SimulationStarted = true
		return true
	})
}

// Complete marks the record completed at 100%. The bool reports whether
// this call performed the transition.
func (q *Queue) Complete(ctx context.Context, id int64) (Record, bool, error) {
	transitioned := false
	rec, err := q.mutate(ctx, id, func(r *Record) bool {
		if r.Status == StatusCompleted {
			return false
		}
		r.Status = StatusCompleted
		r.Progress = 100
		transitioned = true
		return true
	})
	return rec, transitioned, err
}

// mutate applies fn to one record under the queue lock. A cancelled ctx
// fails before anything is read, so a cancelled simulation cannot change
// the record once Cancel has returned from cancel().
func (q *Queue) mutate(ctx context.Context, id int64, fn func(r *Record) bool) (Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	records, err := q.loadQueue(ctx)
	if err != nil {
		return Record{}, err
	}

	idx := indexOfRecord(records, id)
	if idx < 0 {
		return Record{}, ErrNotFound
	}

	if !fn(&records[idx]) {
		return records[idx], nil
	}
	if err := q.saveQueue(ctx, records); err != nil {
		return Record{}, err
	}
	return records[idx], nil
}

// Remove deletes a record from the queue.
func (q *Queue) Remove(ctx context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	records, err := q.loadQueue(ctx)
	if err != nil {
		return err
	}

	idx := indexOfRecord(records, id)
	if idx < 0 {
		return ErrNotFound
	}
	records = append(records[:idx], records[idx+1:]...)
	return q.saveQueue(ctx, records)
}

func (q *Queue) Get(ctx context.Context, id int64) (Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	records, err := q.loadQueue(ctx)
	if err != nil {
		return Record{}, err
	}
	idx := indexOfRecord(records, id)
	if idx < 0 {
		return Record{}, ErrNotFound
	}
	return records[idx], nil
}

func (q *Queue) List(ctx context.Context) ([]Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loadQueue(ctx)
}

// InFlight counts records still uploading.
func (q *Queue) InFlight(ctx context.Context) (int, error) {
	records, err := q.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range records {
		if r.Status == StatusUploading {
			n++
		}
	}
	return n, nil
}

func (q *Queue) loadQueue(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := q.loadJSON(ctx, store.KeyUploadQueue, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (q *Queue) saveQueue(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	return q.saveJSON(ctx, store.KeyUploadQueue, records)
}

func (q *Queue) loadJSON(ctx context.Context, key string, v any) error {
	data, err := q.blobs.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		// An unreadable document is treated as empty; the next save replaces it.
		q.logger.Warn("discarding unreadable document", "key", key, "error", err)
		return nil
	}
	return nil
}

func (q *Queue) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := q.blobs.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func indexOfRecord(records []Record, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
