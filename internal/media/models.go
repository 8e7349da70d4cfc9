package media

import (
	"strings"

	"github.com/google/uuid"
)

// Where a clip came from. The same values are stored as the upload record's
// source.
const (
	SourceLibrary = "Library"
	SourceSilke   = "Silke"
	SourceUploads = "Uploads"
	SourceURL     = "URL"
	SourceUpload  = "Upload"
)

// Clip is a candidate for the trim editor.
type Clip struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Duration     string `json:"duration"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Source       string `json:"source"`
	SlikeID      string `json:"slike_id,omitempty"`
}

// LocalFile describes a file picked from the user's machine. Only the
// metadata is inspected; contents are never read.
type LocalFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// FromLocalFile validates f and builds a placeholder clip for it.
func FromLocalFile(f LocalFile, maxBytes int64, defaultDuration string) (Clip, error) {
	if err := ValidateLocalFileWithin(f, maxBytes); err != nil {
		return Clip{}, err
	}
	return Clip{
		ID:       uuid.NewString(),
		Title:    f.Name,
		Duration: defaultDuration,
		Source:   SourceUpload,
	}, nil
}

// FromURL builds a placeholder clip titled after the last path segment.
func FromURL(rawURL, defaultDuration string) Clip {
	title := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(title, "?#"); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimRight(title, "/")
	if i := strings.LastIndex(title, "/"); i >= 0 && i < len(title)-1 {
		title = title[i+1:]
	}
	if title == "" {
		title = rawURL
	}
	return Clip{
		ID:       uuid.NewString(),
		Title:    title,
		Duration: defaultDuration,
		Source:   SourceURL,
	}
}
