// Package trim implements the in/out trim editor opened on a selected clip.
// The editor keeps in < out at all times; an edit that would cross the other
// marker moves the other marker to one second past it.
package trim

import (
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

// FallbackDuration is used when neither the clip nor the caller supplies a
// usable duration.
const FallbackDuration = 30

type Editor struct {
	clip     media.Clip
	duration int
	in       *timecode.Field
	out      *timecode.Field
}

// NewEditor opens clip with in at zero and out at the full duration. A clip
// without a parseable duration uses defaultDuration.
func NewEditor(clip media.Clip, defaultDuration string) *Editor {
	d := timecode.ParseSeconds(clip.Duration)
	if d <= 0 {
		d = timecode.ParseSeconds(defaultDuration)
	}
	if d <= 0 {
		d = FallbackDuration
	}
	return &Editor{
		clip:     clip,
		duration: d,
		in:       timecode.NewField(0, d),
		out:      timecode.NewField(d, d),
	}
}

func (e *Editor) Clip() media.Clip { return e.clip }

// Duration is the clip length in seconds.
func (e *Editor) Duration() int { return e.duration }

func (e *Editor) InText() string  { return e.in.Text() }
func (e *Editor) OutText() string { return e.out.Text() }
func (e *Editor) In() int         { return e.in.Seconds() }
func (e *Editor) Out() int        { return e.out.Seconds() }

// SetIn types and commits text into the in marker.
func (e *Editor) SetIn(text string) error {
	e.TypeIn(text)
	return e.BlurIn()
}

// SetOut types and commits text into the out marker.
func (e *Editor) SetOut(text string) error {
	e.TypeOut(text)
	return e.BlurOut()
}

// TypeIn records in-progress text. Nothing is validated until the text is
// a full HH:MM:SS timecode or the field is blurred.
func (e *Editor) TypeIn(text string) {
	if e.in.Type(text) {
		e.afterInEdit()
	}
}

func (e *Editor) TypeOut(text string) {
	if e.out.Type(text) {
		e.afterOutEdit()
	}
}

// BlurIn commits the in marker. Malformed text is rejected and the previous
// value restored.
func (e *Editor) BlurIn() error {
	if err := e.in.Commit(); err != nil {
		return err
	}
	e.afterInEdit()
	return nil
}

func (e *Editor) BlurOut() error {
	if err := e.out.Commit(); err != nil {
		return err
	}
	e.afterOutEdit()
	return nil
}

func (e *Editor) afterInEdit() {
	if e.in.Seconds() >= e.out.Seconds() {
		e.pushOut()
	}
}

func (e *Editor) afterOutEdit() {
	if e.out.Seconds() <= e.in.Seconds() {
		e.pushOut()
	}
}

// pushOut places out one second after in, pulling in back when that would
// run past the end of the clip.
func (e *Editor) pushOut() {
	next := e.in.Seconds() + 1
	if next > e.duration {
		e.in.Set(e.duration - 1)
		next = e.duration
	}
	e.out.Set(next)
}

func (e *Editor) TrimmedSeconds() int {
	return e.out.Seconds() - e.in.Seconds()
}

// Trimmed is the trimmed length as a duration label.
func (e *Editor) Trimmed() string {
	return timecode.Format(e.TrimmedSeconds(), false)
}

// Changed reports whether either marker moved from its default.
func (e *Editor) Changed() bool {
	return e.in.Seconds() != 0 || e.out.Seconds() != e.duration
}

// Original is the clip's own duration label.
func (e *Editor) Original() string {
	if e.clip.Duration != "" && timecode.ParseSeconds(e.clip.Duration) > 0 {
		return e.clip.Duration
	}
	return timecode.Format(e.duration, false)
}

// Result is the duration handed downstream: the trimmed length when the
// markers were moved, otherwise the original duration.
func (e *Editor) Result() string {
	if e.Changed() {
		return e.Trimmed()
	}
	return e.Original()
}

// Confirm commits any pending text, runs the result through the gate and
// builds the upload to enqueue. On error nothing is built and the markers
// keep their committed values.
func (e *Editor) Confirm(gate *media.Gate) (uploads.NewUpload, error) {
	if e.in.Pending() {
		if err := e.BlurIn(); err != nil {
			return uploads.NewUpload{}, err
		}
	}
	if e.out.Pending() {
		if err := e.BlurOut(); err != nil {
			return uploads.NewUpload{}, err
		}
	}

	result := e.Result()
	if gate != nil {
		if err := gate.Check(result); err != nil {
			return uploads.NewUpload{}, err
		}
	}

	up := uploads.NewUpload{
		Title:            e.clip.Title,
		Duration:         result,
		OriginalDuration: e.Original(),
		Source:           e.clip.Source,
	}
	if e.Changed() {
		up.TrimmedDuration = e.Trimmed()
	}
	return up, nil
}

// Clone returns an independent copy, used to try a set of edits without
// touching the original on failure.
func (e *Editor) Clone() *Editor {
	in, out := *e.in, *e.out
	return &Editor{clip: e.clip, duration: e.duration, in: &in, out: &out}
}
