package media

import (
	"errors"

	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
)

// Rejection codes shared by the API, toasts and metrics.
const (
	ReasonFileTooLarge        = "FILE_TOO_LARGE"
	ReasonUnsupportedFileType = "UNSUPPORTED_FILE_TYPE"
	ReasonDurationMismatch    = "DURATION_MISMATCH"
	ReasonMalformedTime       = "MALFORMED_TIME_INPUT"
)

// RejectionReason maps a rejection error to its code, or "" if err is not a
// rejection.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return ReasonFileTooLarge
	case errors.Is(err, ErrUnsupportedFileType):
		return ReasonUnsupportedFileType
	case errors.Is(err, ErrDurationMismatch):
		return ReasonDurationMismatch
	case errors.Is(err, timecode.ErrMalformedTime):
		return ReasonMalformedTime
	}
	return ""
}

// RejectionToast builds the destructive toast shown for a rejection.
func RejectionToast(err error) notify.Toast {
	title := "Error"
	switch RejectionReason(err) {
	case ReasonFileTooLarge:
		title = "File too large"
	case ReasonUnsupportedFileType:
		title = "Unsupported file type"
	case ReasonDurationMismatch:
		title = "Duration mismatch"
	case ReasonMalformedTime:
		title = "Invalid time"
	}
	return notify.Toast{Title: title, Description: err.Error(), Severity: notify.SeverityDestructive}
}
