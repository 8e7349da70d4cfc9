package trim

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
)

func clip(duration string) media.Clip {
	return media.Clip{ID: "c1", Title: "clip.mp4", Duration: duration, Source: media.SourceLibrary}
}

func TestNewEditor_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		fallback string
		want     int
		wantOut  string
	}{
		{"clip duration", "05:02", "00:30", 302, "00:05:02"},
		{"fallback to default", "", "00:45", 45, "00:00:45"},
		{"zero clip duration", "00:00", "00:30", 30, "00:00:30"},
		{"nothing usable", "", "", FallbackDuration, "00:00:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(clip(tt.duration), tt.fallback)
			if e.Duration() != tt.want {
				t.Errorf("Duration() = %d, want %d", e.Duration(), tt.want)
			}
			if e.InText() != "00:00:00" {
				t.Errorf("InText() = %s, want 00:00:00", e.InText())
			}
			if e.OutText() != tt.wantOut {
				t.Errorf("OutText() = %s, want %s", e.OutText(), tt.wantOut)
			}
			if e.Changed() {
				t.Error("new editor reports Changed()")
			}
		})
	}
}

func TestEditor_OutBeforeInIsNudged(t *testing.T) {
	e := NewEditor(clip("00:30"), "")

	if err := e.SetIn("00:00:10"); err != nil {
		t.Fatalf("SetIn() error = %v", err)
	}
	if err := e.SetOut("00:00:05"); err != nil {
		t.Fatalf("SetOut() error = %v", err)
	}

	if e.OutText() != "00:00:11" {
		t.Errorf("OutText() = %s, want 00:00:11", e.OutText())
	}
	if e.InText() != "00:00:10" {
		t.Errorf("InText() = %s, want 00:00:10", e.InText())
	}
}

func TestEditor_Ordering(t *testing.T) {
	tests := []struct {
		name    string
		in, out string
		wantIn  int
		wantOut int
	}{
		{"in past out pushes out", "00:00:25", "", 25, 26},
		{"in at end pulls back", "00:00:30", "", 29, 30},
		{"in beyond clip clamped", "00:05:00", "", 29, 30},
		{"out equal to in", "00:00:10", "00:00:10", 10, 11},
		{"out at zero", "", "00:00:00", 0, 1},
		{"valid range untouched", "00:00:05", "00:00:20", 5, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditor(clip("00:30"), "")
			if tt.in != "" {
				if err := e.SetIn(tt.in); err != nil {
					t.Fatalf("SetIn() error = %v", err)
				}
			}
			if tt.out != "" {
				if err := e.SetOut(tt.out); err != nil {
					t.Fatalf("SetOut() error = %v", err)
				}
			}
			if e.In() != tt.wantIn || e.Out() != tt.wantOut {
				t.Errorf("in/out = %d/%d, want %d/%d", e.In(), e.Out(), tt.wantIn, tt.wantOut)
			}
		})
	}
}

func TestEditor_InvariantHoldsUnderRandomEdits(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	e := NewEditor(clip("01:00"), "")

	for i := 0; i < 2000; i++ {
		text := timecode.Format(r.IntN(90), true)
		if r.IntN(2) == 0 {
			e.SetIn(text)
		} else {
			e.SetOut(text)
		}
		if e.In() >= e.Out() {
			t.Fatalf("edit %d (%s): in %d >= out %d", i, text, e.In(), e.Out())
		}
		if e.Out() > e.Duration() || e.In() < 0 {
			t.Fatalf("edit %d: in/out %d/%d outside clip", i, e.In(), e.Out())
		}
	}
}

func TestEditor_TypingIsTolerated(t *testing.T) {
	e := NewEditor(clip("00:30"), "")

	e.TypeIn("00:0")
	if e.InText() != "00:0" {
		t.Errorf("InText() = %q, want raw text", e.InText())
	}
	if e.In() != 0 {
		t.Errorf("In() = %d, want 0 while typing", e.In())
	}

	e.TypeIn("00:00:12")
	if e.In() != 12 {
		t.Errorf("In() = %d, want 12 once strict", e.In())
	}

	e.TypeOut("1x")
	err := e.BlurOut()
	if !errors.Is(err, timecode.ErrMalformedTime) {
		t.Fatalf("BlurOut() error = %v, want ErrMalformedTime", err)
	}
	if e.OutText() != "00:00:30" || e.Out() != 30 {
		t.Errorf("out = %q/%d, want restored 00:00:30", e.OutText(), e.Out())
	}
}

func TestEditor_BlurNormalizesLooseText(t *testing.T) {
	e := NewEditor(clip("05:00"), "")
	e.TypeOut("1:5")
	if err := e.BlurOut(); err != nil {
		t.Fatalf("BlurOut() error = %v", err)
	}
	if e.OutText() != "00:01:05" {
		t.Errorf("OutText() = %s, want 00:01:05", e.OutText())
	}
}

func TestEditor_Result(t *testing.T) {
	e := NewEditor(clip("00:00:30"), "")
	if e.Result() != "00:00:30" {
		t.Errorf("untouched Result() = %s, want original label", e.Result())
	}

	e.SetIn("00:00:05")
	e.SetOut("00:00:20")
	if e.TrimmedSeconds() != 15 || e.Trimmed() != "00:15" {
		t.Errorf("trimmed = %d (%s), want 15 (00:15)", e.TrimmedSeconds(), e.Trimmed())
	}
	if e.Result() != "00:15" {
		t.Errorf("Result() = %s, want 00:15", e.Result())
	}

	// Moving the markers back to the defaults counts as unchanged.
	e.SetIn("00:00:00")
	e.SetOut("00:00:30")
	if e.Changed() {
		t.Error("Changed() after restoring defaults")
	}
}

func TestEditor_Confirm(t *testing.T) {
	t.Run("as is", func(t *testing.T) {
		e := NewEditor(clip("00:30"), "")
		up, err := e.Confirm(media.NewGate("00:30"))
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if up.Duration != "00:30" || up.TrimmedDuration != "" || up.OriginalDuration != "00:30" {
			t.Errorf("upload = %+v", up)
		}
		if up.Title != "clip.mp4" || up.Source != media.SourceLibrary {
			t.Errorf("upload = %+v", up)
		}
	})

	t.Run("trimmed to match", func(t *testing.T) {
		e := NewEditor(clip("00:45"), "")
		e.SetOut("00:00:30")
		up, err := e.Confirm(media.NewGate("00:30"))
		if err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}
		if up.Duration != "00:30" || up.TrimmedDuration != "00:30" || up.OriginalDuration != "00:45" {
			t.Errorf("upload = %+v", up)
		}
	})

	t.Run("mismatch rejected", func(t *testing.T) {
		e := NewEditor(clip("00:45"), "")
		e.SetOut("00:00:40")
		_, err := e.Confirm(media.NewGate("00:30"))
		if !errors.Is(err, media.ErrDurationMismatch) {
			t.Fatalf("Confirm() error = %v, want ErrDurationMismatch", err)
		}
		if e.Out() != 40 {
			t.Errorf("Out() = %d, markers changed by rejection", e.Out())
		}
	})

	t.Run("pending malformed text", func(t *testing.T) {
		e := NewEditor(clip("00:30"), "")
		e.TypeIn("ab")
		_, err := e.Confirm(nil)
		if !errors.Is(err, timecode.ErrMalformedTime) {
			t.Fatalf("Confirm() error = %v, want ErrMalformedTime", err)
		}
	})
}

func TestEditor_CloneIsIndependent(t *testing.T) {
	e := NewEditor(clip("00:30"), "")
	c := e.Clone()
	c.SetIn("00:00:10")

	if e.In() != 0 {
		t.Errorf("original In() = %d after editing clone", e.In())
	}
	if c.In() != 10 {
		t.Errorf("clone In() = %d, want 10", c.In())
	}
}
