package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"

	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

const defaultRefreshInterval = 2 * time.Second

// Pauser is the simulator control the tray toggles.
type Pauser interface {
	Pause()
	Resume()
	IsPaused() bool
}

// QueueStatus is the queue view the tray polls.
type QueueStatus interface {
	InFlight(ctx context.Context) (int, error)
	Library(ctx context.Context) ([]uploads.LibraryEntry, error)
}

type Tray struct {
	queue      QueueStatus
	simulator  Pauser
	logger     *slog.Logger
	refresh    time.Duration
	consoleURL string

	statusItem  *systray.MenuItem
	libraryItem *systray.MenuItem
	pauseItem   *systray.MenuItem

	mu   sync.Mutex
	stop chan struct{}

	onQuit func()
}

type TrayConfig struct {
	Queue           QueueStatus
	Simulator       Pauser
	Logger          *slog.Logger
	ConsoleURL      string
	RefreshInterval time.Duration
	OnQuit          func()
}

func NewTray(cfg TrayConfig) *Tray {
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = defaultRefreshInterval
	}
	return &Tray{
		queue:      cfg.Queue,
		simulator:  cfg.Simulator,
		logger:     cfg.Logger,
		refresh:    refresh,
		consoleURL: cfg.ConsoleURL,
		stop:       make(chan struct{}),
		onQuit:     cfg.OnQuit,
	}
}

// Run blocks until the tray quits. It must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Fast Channel")
	systray.SetTooltip("Fast Channel console " + t.consoleURL)

	t.statusItem = systray.AddMenuItem(statusTitle(0, false), "Uploads in progress")
	t.statusItem.Disable()

	t.libraryItem = systray.AddMenuItem(libraryTitle(0), "Videos in the library")
	t.libraryItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem(pauseTitle(t.isPaused()), "Pause or resume upload progress")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Fast Channel")

	go t.poll()

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	close(t.stop)
	t.logger.Info("system tray exiting")
}

func (t *Tray) poll() {
	ticker := time.NewTicker(t.refresh)
	defer ticker.Stop()

	for {
		t.Refresh(context.Background())
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}
	}
}

// Refresh re-reads the queue and updates the menu titles.
func (t *Tray) Refresh(ctx context.Context) {
	if t.queue == nil {
		return
	}
	inFlight, err := t.queue.InFlight(ctx)
	if err != nil {
		t.logger.Warn("tray refresh failed", "error", err)
		return
	}
	library, err := t.queue.Library(ctx)
	if err != nil {
		t.logger.Warn("tray refresh failed", "error", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle(statusTitle(inFlight, t.isPaused()))
	t.libraryItem.SetTitle(libraryTitle(len(library)))
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.simulator == nil {
		return
	}

	if t.simulator.IsPaused() {
		t.simulator.Resume()
	} else {
		t.simulator.Pause()
	}
	t.pauseItem.SetTitle(pauseTitle(t.simulator.IsPaused()))
}

func (t *Tray) isPaused() bool {
	return t.simulator != nil && t.simulator.IsPaused()
}

func (t *Tray) Quit() {
	systray.Quit()
}

func statusTitle(inFlight int, paused bool) string {
	title := fmt.Sprintf("Uploads: %d in flight", inFlight)
	if paused {
		title += " (paused)"
	}
	return title
}

func libraryTitle(n int) string {
	if n == 1 {
		return "Library: 1 video"
	}
	return fmt.Sprintf("Library: %d videos", n)
}

func pauseTitle(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}
