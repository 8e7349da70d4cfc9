// Package timecode converts between the textual clip durations used across the
// console ("HH:MM:SS", "MM:SS" or bare seconds) and whole seconds.
//
// Whole seconds are the only representation business logic should carry; text
// is parsed on the way in and formatted on the way out.
package timecode

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedTime is returned when committed text contains a non-numeric
// field or more than three fields.
var ErrMalformedTime = errors.New("malformed time input")

// strictRegex matches the fully typed HH:MM:SS form
var strictRegex = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

const maxFieldValue = 59

// ParseSeconds converts text to total seconds. One field is read as bare
// seconds, two as MM:SS and three as HH:MM:SS. Missing or non-numeric fields
// count as zero and minutes/seconds fields are clamped to 0-59.
func ParseSeconds(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}

	var hours, minutes, seconds int
	switch len(parts) {
	case 1:
		return atoi(parts[0])
	case 2:
		minutes = clampField(atoi(parts[0]))
		seconds = clampField(atoi(parts[1]))
	case 3:
		hours = atoi(parts[0])
		minutes = clampField(atoi(parts[1]))
		seconds = clampField(atoi(parts[2]))
	}

	return hours*3600 + minutes*60 + seconds
}

// ParseSecondsWithin parses text and clamps the result to [0, known]. A known
// duration of zero or less disables the upper bound.
func ParseSecondsWithin(text string, known int) int {
	return Clamp(ParseSeconds(text), known)
}

// Clamp bounds seconds to [0, known]; known <= 0 means unbounded.
func Clamp(seconds, known int) int {
	if seconds < 0 {
		return 0
	}
	if known > 0 && seconds > known {
		return known
	}
	return seconds
}

// Format renders seconds as MM:SS, or HH:MM:SS when the hours field is
// non-zero or forceHours is set.
func Format(seconds int, forceHours bool) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h == 0 && !forceHours {
		return fmt.Sprintf("%02d:%02d", m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Normalize converts any accepted representation to canonical MM:SS, folding
// hours into the minutes field.
func Normalize(text string) string {
	total := ParseSeconds(text)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Equal reports whether two duration labels describe the same length.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// IsStrict reports whether text is a complete HH:MM:SS timecode.
func IsStrict(text string) bool {
	return strictRegex.MatchString(text)
}

// Validate checks that text is committable: at most three colon-separated
// fields, each made of digits only. The empty string is valid (zero).
func Validate(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return fmt.Errorf("%w: %q has more than three fields", ErrMalformedTime, text)
	}
	for _, p := range parts {
		if p == "" || !isDigits(p) {
			return fmt.Errorf("%w: %q", ErrMalformedTime, text)
		}
	}
	return nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func clampField(n int) int {
	if n > maxFieldValue {
		return maxFieldValue
	}
	return n
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
