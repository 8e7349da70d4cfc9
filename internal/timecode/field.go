package timecode

// Field is an editable timecode input. Text typed into it is kept verbatim
// until it either matches the strict HH:MM:SS pattern or is committed (blur),
// at which point it is normalized against the field's limit.
type Field struct {
	raw       string
	committed int
	limit     int
}

// NewField returns a field holding seconds, bounded by limit (<= 0 for none).
func NewField(seconds, limit int) *Field {
	f := &Field{limit: limit}
	f.Set(seconds)
	return f
}

// Type records in-progress text. It returns true when the text was complete
// enough to be committed immediately.
func (f *Field) Type(text string) bool {
	f.raw = text
	if !IsStrict(text) {
		return false
	}
	f.Set(ParseSecondsWithin(text, f.limit))
	return true
}

// Commit validates and normalizes the typed text. Malformed text is discarded
// and the last committed value restored.
func (f *Field) Commit() error {
	if err := Validate(f.raw); err != nil {
		f.raw = Format(f.committed, true)
		return err
	}
	f.Set(ParseSecondsWithin(f.raw, f.limit))
	return nil
}

// Set replaces the committed value.
func (f *Field) Set(seconds int) {
	f.committed = Clamp(seconds, f.limit)
	f.raw = Format(f.committed, true)
}

// Text returns what the field currently displays.
func (f *Field) Text() string { return f.raw }

// Seconds returns the last committed value.
func (f *Field) Seconds() int { return f.committed }

// Pending reports whether the displayed text differs from the committed value.
func (f *Field) Pending() bool { return f.raw != Format(f.committed, true) }
