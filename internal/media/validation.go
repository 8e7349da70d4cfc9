package media

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MaxFileSize = 100 * 1024 * 1024 // 100 MiB
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

var AllowedMimeTypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"video/x-msvideo":  true,
	"video/x-m4v":      true,
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"image/webp":       true,
}

var extensionTypes = map[string]string{
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"webm": "video/webm",
	"mkv":  "video/x-matroska",
	"avi":  "video/x-msvideo",
	"m4v":  "video/x-m4v",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ValidateLocalFile checks f against the default size cap and the type
// allow-list.
func ValidateLocalFile(f LocalFile) error {
	return ValidateLocalFileWithin(f, MaxFileSize)
}

// ValidateLocalFileWithin is ValidateLocalFile with a custom cap. A
// non-positive cap means MaxFileSize.
func ValidateLocalFileWithin(f LocalFile, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	if f.Size > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, f.Name, f.Size, maxBytes)
	}

	if AllowedMimeTypes[baseContentType(f.ContentType)] {
		return nil
	}
	if _, ok := extensionTypes[extension(f.Name)]; ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Name)
}

// IsVideo reports whether f is a video by declared type or extension.
func IsVideo(f LocalFile) bool {
	if ct := baseContentType(f.ContentType); ct != "" {
		return strings.HasPrefix(ct, "video/")
	}
	return strings.HasPrefix(extensionTypes[extension(f.Name)], "video/")
}

func baseContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
