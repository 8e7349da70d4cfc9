//go:build integration

package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/trim"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func InitializeTrimScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^a clip "([^"]*)" lasting "([^"]*)"$`, aClipLasting)
	ctx.Step(`^I set the in point to "([^"]*)"$`, iSetTheInPointTo)
	ctx.Step(`^I set the out point to "([^"]*)"$`, iSetTheOutPointTo)
	ctx.Step(`^the in point should be "([^"]*)"$`, theInPointShouldBe)
	ctx.Step(`^the out point should be "([^"]*)"$`, theOutPointShouldBe)
	ctx.Step(`^the trimmed duration should be "([^"]*)"$`, theTrimmedDurationShouldBe)
	ctx.Step(`^the edit should be rejected as "([^"]*)"$`, theEditShouldBeRejectedAs)
}

func aClipLasting(title, duration string) error {
	clip := media.Clip{ID: title, Title: title, Duration: duration, Source: media.SourceUpload}
	getWorld().editor = trim.NewEditor(clip, uploads.DefaultDuration)
	return nil
}

func iSetTheInPointTo(text string) error {
	w := getWorld()
	w.editErr = w.editor.SetIn(text)
	return nil
}

func iSetTheOutPointTo(text string) error {
	w := getWorld()
	w.editErr = w.editor.SetOut(text)
	return nil
}

func theInPointShouldBe(want string) error {
	if got := getWorld().editor.InText(); got != want {
		return fmt.Errorf("in point is %q, want %q", got, want)
	}
	return nil
}

func theOutPointShouldBe(want string) error {
	if got := getWorld().editor.OutText(); got != want {
		return fmt.Errorf("out point is %q, want %q", got, want)
	}
	return nil
}

func theTrimmedDurationShouldBe(want string) error {
	w := getWorld()
	if w.editErr != nil {
		return fmt.Errorf("unexpected edit error: %w", w.editErr)
	}
	if got := w.editor.Trimmed(); got != want {
		return fmt.Errorf("trimmed duration is %q, want %q", got, want)
	}
	return nil
}

func theEditShouldBeRejectedAs(reason string) error {
	err := getWorld().editErr
	if err == nil {
		return fmt.Errorf("expected the edit to be rejected")
	}
	if got := media.RejectionReason(err); got != reason {
		return fmt.Errorf("rejected as %q, want %q", got, reason)
	}
	return nil
}
