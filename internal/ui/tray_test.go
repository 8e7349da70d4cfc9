package ui

import (
	"bytes"
	"testing"
)

func TestStatusTitle(t *testing.T) {
	tests := []struct {
		inFlight int
		paused   bool
		want     string
	}{
		{0, false, "Uploads: 0 in flight"},
		{3, false, "Uploads: 3 in flight"},
		{2, true, "Uploads: 2 in flight (paused)"},
	}
	for _, tt := range tests {
		if got := statusTitle(tt.inFlight, tt.paused); got != tt.want {
			t.Errorf("statusTitle(%d, %v) = %q, want %q", tt.inFlight, tt.paused, got, tt.want)
		}
	}
}

func TestLibraryTitle(t *testing.T) {
	if got := libraryTitle(1); got != "Library: 1 video" {
		t.Errorf("libraryTitle(1) = %q", got)
	}
	if got := libraryTitle(4); got != "Library: 4 videos" {
		t.Errorf("libraryTitle(4) = %q", got)
	}
}

func TestPauseTitle(t *testing.T) {
	if pauseTitle(false) != "Pause" || pauseTitle(true) != "Resume" {
		t.Error("pause titles do not toggle")
	}
}

func TestIconIsPNG(t *testing.T) {
	if !bytes.HasPrefix(iconBytes, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("embedded icon is not a PNG")
	}
}

type fakePauser struct{ paused bool }

func (f *fakePauser) Pause()         { f.paused = true }
func (f *fakePauser) Resume()        { f.paused = false }
func (f *fakePauser) IsPaused() bool { return f.paused }

func TestNewTray_Defaults(t *testing.T) {
	p := &fakePauser{paused: true}
	tray := NewTray(TrayConfig{Simulator: p})
	if tray.refresh != defaultRefreshInterval {
		t.Errorf("refresh = %v, want %v", tray.refresh, defaultRefreshInterval)
	}
	if !tray.isPaused() {
		t.Error("isPaused = false with a paused simulator")
	}
}
