package uploads

import (
	"context"

	"github.com/fastchannel/fastchannel-console/internal/store"
)

// Promote creates the library entry for a completed record. It is safe to
// call repeatedly: the entry is created once per record id, even if the
// operator has since deleted it, and the bool reports whether this call
// created it.
func (q *Queue) Promote(ctx context.Context, id int64) (LibraryEntry, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return LibraryEntry{}, false, err
	}

	library, err := q.loadLibrary(ctx)
	if err != nil {
		return LibraryEntry{}, false, err
	}
	if idx := indexOfEntry(library, id); idx >= 0 {
		return library[idx], false, nil
	}

	records, err := q.loadQueue(ctx)
	if err != nil {
		return LibraryEntry{}, false, err
	}
	idx := indexOfRecord(records, id)
	if idx < 0 {
		return LibraryEntry{}, false, ErrNotFound
	}
	rec := records[idx]
	if rec.Status != StatusCompleted {
		return LibraryEntry{}, false, ErrNotCompleted
	}
	if rec.Promoted {
		return LibraryEntry{ID: rec.ID}, false, nil
	}

	entry := LibraryEntry{
		ID:         rec.ID,
		Name:       rec.Title,
		Source:     rec.Source,
		Duration:   rec.Duration,
		UploadedAt: q.now(),
	}
	if entry.Source == "" {
		entry.Source = DefaultSource
	}
	if entry.Duration == "" {
		entry.Duration = q.defaultDuration
	}

	// Library first: a crash before the flag is saved still finds the
	// entry by id on the next call.
	library = append(library, entry)
	if err := q.saveJSON(ctx, store.KeyVideoList, library); err != nil {
		return LibraryEntry{}, false, err
	}
	records[idx].Promoted = true
	if err := q.saveQueue(ctx, records); err != nil {
		return LibraryEntry{}, false, err
	}

	q.logger.Info("upload promoted to library", "upload_id", id, "name", entry.Name)
	return entry, true, nil
}

// Library returns the video library in display order.
func (q *Queue) Library(ctx context.Context) ([]LibraryEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loadLibrary(ctx)
}

// MoveVideo moves the entry at index from to index to; the others keep
// their relative order.
func (q *Queue) MoveVideo(ctx context.Context, from, to int) ([]LibraryEntry, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	library, err := q.loadLibrary(ctx)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(library) || to < 0 || to >= len(library) {
		return nil, ErrIndexOutOfRange
	}
	if from == to {
		return library, nil
	}

	moved := library[from]
	rest := make([]LibraryEntry, 0, len(library))
	rest = append(rest, library[:from]...)
	rest = append(rest, library[from+1:]...)

	out := make([]LibraryEntry, 0, len(library))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)

	if err := q.saveJSON(ctx, store.KeyVideoList, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveVideo deletes a library entry by id.
func (q *Queue) RemoveVideo(ctx context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	library, err := q.loadLibrary(ctx)
	if err != nil {
		return err
	}
	idx := indexOfEntry(library, id)
	if idx < 0 {
		return ErrNotFound
	}
	library = append(library[:idx], library[idx+1:]...)
	return q.saveJSON(ctx, store.KeyVideoList, library)
}

func (q *Queue) loadLibrary(ctx context.Context) ([]LibraryEntry, error) {
	var library []LibraryEntry
	if err := q.loadJSON(ctx, store.KeyVideoList, &library); err != nil {
		return nil, err
	}
	if library == nil {
		library = []LibraryEntry{}
	}
	return library, nil
}

func indexOfEntry(library []LibraryEntry, id int64) int {
	for i, e := range library {
		if e.ID == id {
			return i
		}
	}
	return -1
}
