package campaign

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (p *pathRecorder) Navigate(_ context.Context, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
}

func (p *pathRecorder) last() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.paths) == 0 {
		return ""
	}
	return p.paths[len(p.paths)-1]
}

type harness struct {
	blobs   *store.MemoryStore
	queue   *uploads.Queue
	toasts  *notify.Recorder
	nav     *pathRecorder
	reasons []string
	service *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		blobs:  store.NewMemoryStore(),
		toasts: notify.NewRecorder(0),
		nav:    &pathRecorder{},
	}
	h.queue = uploads.NewQueue(h.blobs, nil)
	h.service = h.newService()
	return h
}

func (h *harness) newService() *Service {
	return NewService(h.blobs, h.queue, Options{
		Notifier:        h.toasts,
		Navigator:       h.nav,
		DefaultDuration: "00:30",
		OnReject:        func(reason string) { h.reasons = append(h.reasons, reason) },
	})
}

func TestService_CreateRequiresName(t *testing.T) {
	h := newHarness(t)

	_, err := h.service.Create(context.Background(), "   ")
	require.ErrorIs(t, err, ErrCampaignNameRequired)

	toast, ok := h.toasts.Last()
	require.True(t, ok)
	assert.Equal(t, "Validation Error", toast.Title)
	assert.Equal(t, notify.SeverityDestructive, toast.Severity)

	list, err := h.service.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c, err := h.service.Create(ctx, "Morning Promo")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	got, err := h.service.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning Promo", got.CampaignName)

	updated, err := h.service.Update(ctx, c.ID, "Evening Promo")
	require.NoError(t, err)
	assert.Equal(t, "Evening Promo", updated.CampaignName)
	assert.False(t, updated.UpdatedAt.Before(got.UpdatedAt))
	assert.Equal(t, PathHome, h.nav.last())

	toast, _ := h.toasts.Last()
	assert.Equal(t, "Success!", toast.Title)
	assert.Contains(t, toast.Description, "Evening Promo")

	_, err = h.service.Update(ctx, c.ID, "")
	require.ErrorIs(t, err, ErrCampaignNameRequired)
	got, _ = h.service.Get(ctx, c.ID)
	assert.Equal(t, "Evening Promo", got.CampaignName)
}

func TestService_UnknownCampaign(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.service.Session(ctx, "missing")
	require.ErrorIs(t, err, ErrCampaignNotFound)
	assert.Equal(t, PathHome, h.nav.last())

	toast, _ := h.toasts.Last()
	assert.Equal(t, "Campaign not found", toast.Description)

	_, err = h.service.Update(ctx, "missing", "name")
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestSession_ConfirmEnqueuesAndNavigates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, err := h.service.Session(ctx, c.ID)
	require.NoError(t, err)

	_, err = sess.Confirm(ctx)
	require.ErrorIs(t, err, ErrNoClipSelected)

	_, err = sess.SelectCatalog(ctx, media.SourceLibrary, "library-2")
	require.NoError(t, err)

	res, err := sess.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, PathCampaignManager, res.Redirect)
	assert.Equal(t, PathCampaignManager, h.nav.last())
	assert.Equal(t, "Matrix Scene", res.Record.Title)
	assert.Equal(t, "03:45", res.Record.Duration)
	assert.Equal(t, uploads.StatusUploading, res.Record.Status)

	ref, ok := sess.Reference()
	require.True(t, ok)
	assert.Equal(t, "03:45", ref)

	_, open := sess.Editor()
	assert.False(t, open)

	stored, _ := h.service.Get(ctx, c.ID)
	assert.Equal(t, "03:45", stored.ReferenceDuration)
}

func TestSession_DurationGateRejectsWithoutQueueMutation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, _ := h.service.Session(ctx, c.ID)

	// First clip establishes 00:30.
	_, err := sess.Select(ctx, media.Clip{ID: "a", Title: "a.mp4", Duration: "00:30"})
	require.NoError(t, err)
	_, err = sess.Confirm(ctx)
	require.NoError(t, err)

	before, _ := h.queue.List(ctx)

	_, err = sess.Select(ctx, media.Clip{ID: "b", Title: "b.mp4", Duration: "00:45"})
	require.ErrorIs(t, err, media.ErrDurationMismatch)

	after, _ := h.queue.List(ctx)
	assert.Equal(t, before, after)
	_, open := sess.Editor()
	assert.False(t, open)

	toast, _ := h.toasts.Last()
	assert.Equal(t, "Duration mismatch", toast.Title)
	assert.Equal(t, []string{media.ReasonDurationMismatch}, h.reasons)
}

func TestSession_TrimToMatchReference(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, _ := h.service.Session(ctx, c.ID)

	_, err := sess.Select(ctx, media.Clip{ID: "a", Title: "a.mp4", Duration: "00:30"})
	require.NoError(t, err)
	_, err = sess.Confirm(ctx)
	require.NoError(t, err)

	// A clip with no duration gets the default and passes the gate, then a
	// trim that breaks the match is refused at confirmation.
	_, err = sess.SelectURL(ctx, "https://cdn.example.com/b.mp4")
	require.NoError(t, err)
	_, err = sess.SetTrim(ctx, "00:00:05", "")
	require.NoError(t, err)

	_, err = sess.Confirm(ctx)
	require.ErrorIs(t, err, media.ErrDurationMismatch)

	records, _ := h.queue.List(ctx)
	assert.Len(t, records, 1)

	editor, open := sess.Editor()
	require.True(t, open)
	assert.Equal(t, 5, editor.In())
}

func TestSession_SetTrimIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, _ := h.service.Session(ctx, c.ID)

	_, err := sess.SetTrim(ctx, "00:00:01", "")
	require.ErrorIs(t, err, ErrNoClipSelected)

	_, err = sess.Select(ctx, media.Clip{ID: "a", Title: "a.mp4", Duration: "01:00"})
	require.NoError(t, err)

	_, err = sess.SetTrim(ctx, "00:00:10", "xx:yy")
	require.ErrorIs(t, err, timecode.ErrMalformedTime)

	editor, _ := sess.Editor()
	assert.Equal(t, 0, editor.In())
	assert.Equal(t, 60, editor.Out())
	assert.Equal(t, media.ReasonMalformedTime, h.reasons[len(h.reasons)-1])

	editor, err = sess.SetTrim(ctx, "00:00:10", "00:00:05")
	require.NoError(t, err)
	assert.Equal(t, "00:00:11", editor.OutText())
}

func TestSession_ReferenceSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, _ := h.service.Session(ctx, c.ID)

	sess.Select(ctx, media.Clip{ID: "a", Title: "a.mp4", Duration: "00:30"})
	_, err := sess.Confirm(ctx)
	require.NoError(t, err)

	restarted := h.newService()
	sess2, err := restarted.Session(ctx, c.ID)
	require.NoError(t, err)

	ref, ok := sess2.Reference()
	require.True(t, ok)
	assert.Equal(t, "00:30", ref)

	_, err = sess2.Select(ctx, media.Clip{ID: "b", Title: "b.mp4", Duration: "05:02"})
	assert.ErrorIs(t, err, media.ErrDurationMismatch)
}

func TestSession_SameInstancePerCampaign(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")

	a, _ := h.service.Session(ctx, c.ID)
	b, _ := h.service.Session(ctx, c.ID)
	assert.Same(t, a, b)
}

func TestSession_SelectFileRejections(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c, _ := h.service.Create(ctx, "Promo")
	sess, _ := h.service.Session(ctx, c.ID)

	_, err := sess.SelectFile(ctx, media.LocalFile{Name: "deck.pdf", ContentType: "application/pdf", Size: 10})
	require.ErrorIs(t, err, media.ErrUnsupportedFileType)

	_, err = sess.SelectCatalog(ctx, "Library", "nope")
	require.ErrorIs(t, err, media.ErrClipNotFound)

	editor, err := sess.SelectFile(ctx, media.LocalFile{Name: "spot.mp4", ContentType: "video/mp4", Size: 1024})
	require.NoError(t, err)
	assert.Equal(t, 30, editor.Duration())

	sess.Cancel()
	_, open := sess.Editor()
	assert.False(t, open)
}
