package uploads

import (
	"time"
)

// Status is the lifecycle state of an upload record.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
)

// Defaults applied when a record is promoted without them.
const (
	DefaultSource   = "Upload"
	DefaultDuration = "00:30"
)

// Record is one in-flight (or just finished) upload in the queue.
type Record struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Duration          string    `json:"duration,omitempty"`
	OriginalDuration  string    `json:"originalDuration,omitempty"`
	TrimmedDuration   string    `json:"trimmedDuration,omitempty"`
	Source            string    `json:"source,omitempty"`
	Progress          int       `json:"progress"`
	Status            Status    `json:"status"`
	SimulationStarted bool      `json:"simulationStarted,omitempty"`
	Timestamp         time.Time `json:"timestamp"`

	// Promoted survives removal of the library entry so a record is
	// never promoted twice.
	Promoted bool `json:"promoted,omitempty"`
}

// LibraryEntry is a completed upload in the campaign's video library.
// Its ID is the ID of the record it was promoted from.
type LibraryEntry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	Duration   string    `json:"duration"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// NewUpload is what the trim editor hands over on confirmation.
type NewUpload struct {
	Title            string
	Duration         string
	OriginalDuration string
	TrimmedDuration  string
	Source           string
}
