//go:build integration

package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func InitializeLibraryScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^the video library holds "([^"]*)"$`, theVideoLibraryHolds)
	ctx.Step(`^I move the entry at index (\d+) to index (\d+)$`, iMoveTheEntryAtIndexToIndex)
	ctx.Step(`^the video library order should be "([^"]*)"$`, theVideoLibraryOrderShouldBe)
	ctx.Step(`^the move should fail$`, theMoveShouldFail)
}

func theVideoLibraryHolds(names string) error {
	w := getWorld()
	w.sim.Pause()
	ctx := context.Background()

	for _, name := range splitList(names) {
		rec, err := w.queue.Enqueue(ctx, uploads.NewUpload{Title: name})
		if err != nil {
			return err
		}
		if _, _, err := w.queue.Complete(ctx, rec.ID); err != nil {
			return err
		}
		if _, _, err := w.queue.Promote(ctx, rec.ID); err != nil {
			return err
		}
		if err := w.sim.Cancel(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}

func iMoveTheEntryAtIndexToIndex(from, to int) error {
	w := getWorld()
	_, w.moveErr = w.queue.MoveVideo(context.Background(), from, to)
	return nil
}

func theVideoLibraryOrderShouldBe(want string) error {
	library, err := getWorld().queue.Library(context.Background())
	if err != nil {
		return err
	}
	names := make([]string, len(library))
	for i, e := range library {
		names[i] = e.Name
	}
	if got := strings.Join(names, ", "); got != want {
		return fmt.Errorf("library order is %q, want %q", got, want)
	}
	return nil
}

func theMoveShouldFail() error {
	if getWorld().moveErr == nil {
		return fmt.Errorf("expected the move to fail")
	}
	return nil
}
