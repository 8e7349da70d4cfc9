//go:build integration

package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/fastchannel/fastchannel-console/internal/simulator"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^an empty upload queue$`, anEmptyUploadQueue)
	ctx.Step(`^the simulator is paused$`, theSimulatorIsPaused)
	ctx.Step(`^I enqueue "([^"]*)" with duration "([^"]*)"$`, iEnqueueWithDuration)
	ctx.Step(`^the simulator runs until the upload finishes$`, theSimulatorRunsUntilTheUploadFinishes)
	ctx.Step(`^I cancel the upload$`, iCancelTheUpload)
	ctx.Step(`^an upload "([^"]*)" was persisted before a restart$`, anUploadWasPersistedBeforeARestart)
	ctx.Step(`^the console starts again$`, theConsoleStartsAgain)
	ctx.Step(`^the upload should have been marked "([^"]*)" at 100 percent$`, theUploadShouldHaveBeenMarkedAt100Percent)
	ctx.Step(`^progress should never have gone down$`, progressShouldNeverHaveGoneDown)
	ctx.Step(`^the video library should contain "([^"]*)" with duration "([^"]*)"$`, theVideoLibraryShouldContainWithDuration)
	ctx.Step(`^the video library should be empty$`, theVideoLibraryShouldBeEmpty)
}

func anEmptyUploadQueue() error {
	return theUploadQueueShouldBeEmpty()
}

func theSimulatorIsPaused() error {
	getWorld().sim.Pause()
	return nil
}

func iEnqueueWithDuration(title, duration string) error {
	w := getWorld()
	rec, err := w.queue.Enqueue(context.Background(), uploads.NewUpload{Title: title, Duration: duration})
	if err != nil {
		return err
	}
	w.lastID = rec.ID
	return nil
}

func theSimulatorRunsUntilTheUploadFinishes() error {
	w := getWorld()
	return w.waitForEvent(w.lastID, simulator.EventRemoved)
}

func iCancelTheUpload() error {
	w := getWorld()
	return w.sim.Cancel(context.Background(), w.lastID)
}

func anUploadWasPersistedBeforeARestart(title string) error {
	w := getWorld()
	w.sim.Shutdown()

	// A queue without a simulator stands in for the previous run.
	previous := uploads.NewQueue(w.store, nil)
	rec, err := previous.Enqueue(context.Background(), uploads.NewUpload{Title: title})
	if err != nil {
		return err
	}
	w.lastID = rec.ID
	return nil
}

func theConsoleStartsAgain() error {
	w := getWorld()
	w.boot()
	n, err := w.sim.Recover(context.Background())
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("expected 1 recovered upload, got %d", n)
	}
	return nil
}

func theUploadShouldHaveBeenMarkedAt100Percent(status string) error {
	w := getWorld()
	for _, e := range w.eventsFor(w.lastID) {
		if e.Kind != simulator.EventCompleted {
			continue
		}
		if string(e.Record.Status) != status || e.Record.Progress != 100 {
			return fmt.Errorf("completed event carried status %q at %d%%", e.Record.Status, e.Record.Progress)
		}
		return nil
	}
	return fmt.Errorf("no completed event for upload %d", w.lastID)
}

func progressShouldNeverHaveGoneDown() error {
	w := getWorld()
	last := -1
	for _, e := range w.eventsFor(w.lastID) {
		if e.Kind != simulator.EventProgress {
			continue
		}
		if e.Record.Progress < last {
			return fmt.Errorf("progress went from %d to %d", last, e.Record.Progress)
		}
		last = e.Record.Progress
	}
	if last != 100 {
		return fmt.Errorf("last progress was %d, want 100", last)
	}
	return nil
}

func theVideoLibraryShouldContainWithDuration(name, duration string) error {
	library, err := getWorld().queue.Library(context.Background())
	if err != nil {
		return err
	}
	found := 0
	for _, e := range library {
		if e.Name == name {
			found++
			if e.Duration != duration {
				return fmt.Errorf("%s has duration %q, want %q", name, e.Duration, duration)
			}
		}
	}
	if found != 1 {
		return fmt.Errorf("expected exactly one library entry named %q, found %d", name, found)
	}
	return nil
}

func theVideoLibraryShouldBeEmpty() error {
	library, err := getWorld().queue.Library(context.Background())
	if err != nil {
		return err
	}
	if len(library) != 0 {
		return fmt.Errorf("expected empty library, got %d entries", len(library))
	}
	return nil
}
