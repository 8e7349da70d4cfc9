//go:build integration

package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func InitializeGateScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^a campaign whose reference duration is "([^"]*)"$`, aCampaignWhoseReferenceDurationIs)
	ctx.Step(`^I select a clip lasting "([^"]*)"$`, iSelectAClipLasting)
	ctx.Step(`^the selection should be rejected as "([^"]*)"$`, theSelectionShouldBeRejectedAs)
	ctx.Step(`^the selection should be accepted$`, theSelectionShouldBeAccepted)
	ctx.Step(`^a "([^"]*)" toast should be shown$`, aToastShouldBeShown)
	ctx.Step(`^a new campaign "([^"]*)"$`, aNewCampaign)
	ctx.Step(`^I pick the "([^"]*)" clip "([^"]*)" and confirm it$`, iPickTheClipAndConfirmIt)
	ctx.Step(`^the campaign reference duration should be "([^"]*)"$`, theCampaignReferenceDurationShouldBe)
	ctx.Step(`^picking the "([^"]*)" clip "([^"]*)" should be rejected as "([^"]*)"$`, pickingTheClipShouldBeRejectedAs)
}

func aCampaignWhoseReferenceDurationIs(reference string) error {
	w := getWorld()
	w.gate = media.NewGate(reference)
	w.selector = media.NewSelector(w.gate, w.toasts, 0, uploads.DefaultDuration)
	return nil
}

func iSelectAClipLasting(duration string) error {
	w := getWorld()
	clip := media.Clip{ID: "candidate", Title: "candidate.mp4", Duration: duration, Source: media.SourceLibrary}
	_, w.selectErr = w.selector.Select(context.Background(), clip)
	return nil
}

func theSelectionShouldBeRejectedAs(reason string) error {
	err := getWorld().selectErr
	if err == nil {
		return fmt.Errorf("expected the selection to be rejected")
	}
	if got := media.RejectionReason(err); got != reason {
		return fmt.Errorf("rejected as %q, want %q", got, reason)
	}
	return nil
}

func theSelectionShouldBeAccepted() error {
	w := getWorld()
	if w.selectErr != nil {
		return fmt.Errorf("selection rejected: %w", w.selectErr)
	}
	if _, ok := w.selector.Current(); !ok {
		return fmt.Errorf("no clip selected")
	}
	return nil
}

func aToastShouldBeShown(title string) error {
	last, ok := getWorld().toasts.Last()
	if !ok {
		return fmt.Errorf("no toast shown")
	}
	if last.Title != title {
		return fmt.Errorf("last toast is %q, want %q", last.Title, title)
	}
	return nil
}

func aNewCampaign(name string) error {
	w := getWorld()
	w.sim.Pause()
	w.campaigns = campaign.NewService(w.store, w.queue, campaign.Options{Notifier: w.toasts})

	ctx := context.Background()
	c, err := w.campaigns.Create(ctx, name)
	if err != nil {
		return err
	}
	w.session, err = w.campaigns.Session(ctx, c.ID)
	return err
}

func iPickTheClipAndConfirmIt(tab, clipID string) error {
	w := getWorld()
	ctx := context.Background()
	if _, err := w.session.SelectCatalog(ctx, tab, clipID); err != nil {
		return err
	}
	res, err := w.session.Confirm(ctx)
	if err != nil {
		return err
	}
	if res.Redirect != campaign.PathCampaignManager {
		return fmt.Errorf("redirected to %q, want %q", res.Redirect, campaign.PathCampaignManager)
	}
	return nil
}

func theCampaignReferenceDurationShouldBe(want string) error {
	w := getWorld()
	c, err := w.campaigns.Get(context.Background(), w.session.CampaignID())
	if err != nil {
		return err
	}
	if c.ReferenceDuration != want {
		return fmt.Errorf("reference duration is %q, want %q", c.ReferenceDuration, want)
	}
	return nil
}

func pickingTheClipShouldBeRejectedAs(tab, clipID, reason string) error {
	w := getWorld()
	_, err := w.session.SelectCatalog(context.Background(), tab, clipID)
	if err == nil {
		return fmt.Errorf("expected %s/%s to be rejected", tab, clipID)
	}
	if got := media.RejectionReason(err); got != reason {
		return fmt.Errorf("rejected as %q, want %q", got, reason)
	}
	return nil
}
