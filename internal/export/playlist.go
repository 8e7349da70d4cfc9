package export

import (
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

const (
	DefaultTitle     = "fastchannel_playlist"
	DefaultFrameRate = 30.0
)

// FromLibrary converts library entries, in playlist order, to EDL events.
// Entries without a positive duration cannot be placed and are returned by
// id in skipped.
func FromLibrary(entries []uploads.LibraryEntry) (events []Event, skipped []int64) {
	events = make([]Event, 0, len(entries))
	skipped = make([]int64, 0)
	for _, e := range entries {
		d := timecode.ParseSeconds(e.Duration)
		if d <= 0 {
			skipped = append(skipped, e.ID)
			continue
		}
		name := SanitizeName(e.Name, 160)
		if name == "" {
			name = "untitled"
		}
		events = append(events, Event{ID: e.ID, Name: name, Source: e.Source, Duration: d})
	}
	return events, skipped
}
