package campaign

import (
	"context"
	"sync"

	"github.com/fastchannel/fastchannel-console/internal/logging"
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/trim"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

// Session is one campaign's editing state: the duration gate, the selected
// clip and the open trim editor.
type Session struct {
	svc        *Service
	campaignID string
	gate       *media.Gate
	selector   *media.Selector

	mu     sync.Mutex
	editor *trim.Editor
}

// ConfirmResult is what a successful confirmation produced.
type ConfirmResult struct {
	Record   uploads.Record `json:"record"`
	Redirect string         `json:"redirect"`
}

func newSession(svc *Service, c Campaign) *Session {
	gate := media.NewGate(c.ReferenceDuration)
	sel := media.NewSelector(gate, svc.opts.Notifier, svc.opts.MaxUploadBytes, svc.opts.DefaultDuration)
	if svc.opts.OnReject != nil {
		sel.OnReject(svc.opts.OnReject)
	}
	return &Session{
		svc:        svc,
		campaignID: c.ID,
		gate:       gate,
		selector:   sel,
	}
}

func (s *Session) CampaignID() string { return s.campaignID }

// Reference returns the duration later clips must match, if established.
func (s *Session) Reference() (string, bool) {
	return s.gate.Reference()
}

// Select gates clip and opens the trim editor on it.
func (s *Session) Select(ctx context.Context, clip media.Clip) (*trim.Editor, error) {
	accepted, err := s.selector.Select(ctx, clip)
	if err != nil {
		return nil, err
	}
	return s.open(accepted), nil
}

// SelectCatalog selects a clip from the media browser.
func (s *Session) SelectCatalog(ctx context.Context, tab, clipID string) (*trim.Editor, error) {
	clip, ok := s.svc.opts.Catalog.Find(tab, clipID)
	if !ok {
		return nil, media.ErrClipNotFound
	}
	return s.Select(ctx, clip)
}

func (s *Session) SelectFile(ctx context.Context, f media.LocalFile) (*trim.Editor, error) {
	accepted, err := s.selector.SelectFile(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.open(accepted), nil
}

func (s *Session) SelectURL(ctx context.Context, rawURL string) (*trim.Editor, error) {
	accepted, err := s.selector.SelectURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return s.open(accepted), nil
}

func (s *Session) open(clip media.Clip) *trim.Editor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor = trim.NewEditor(clip, s.svc.opts.DefaultDuration)
	return s.editor
}

// Editor returns the open trim editor.
func (s *Session) Editor() (*trim.Editor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor, s.editor != nil
}

// SetTrim applies in and out (either may be empty to leave it alone). Both
// edits apply or neither does.
func (s *Session) SetTrim(ctx context.Context, in, out string) (*trim.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor == nil {
		return nil, ErrNoClipSelected
	}

	next := s.editor.Clone()
	if in != "" {
		if err := next.SetIn(in); err != nil {
			return nil, s.reject(ctx, err)
		}
	}
	if out != "" {
		if err := next.SetOut(out); err != nil {
			return nil, s.reject(ctx, err)
		}
	}
	s.editor = next
	return next, nil
}

// Confirm runs the editor result through the gate and enqueues it. The
// first confirmed clip fixes the session's reference duration. On success
// the editor closes and the user is sent to the campaign manager.
func (s *Session) Confirm(ctx context.Context) (ConfirmResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editor == nil {
		return ConfirmResult{}, ErrNoClipSelected
	}

	candidate := s.editor.Clone()
	up, err := candidate.Confirm(s.gate)
	if err != nil {
		return ConfirmResult{}, s.reject(ctx, err)
	}

	rec, err := s.svc.queue.Enqueue(ctx, up)
	if err != nil {
		return ConfirmResult{}, err
	}

	if s.gate.Establish(up.Duration) {
		ref, _ := s.gate.Reference()
		if err := s.svc.setReference(ctx, s.campaignID, ref); err != nil {
			logging.WithCampaignID(s.svc.logger, s.campaignID).Warn("failed to persist reference duration", "error", err)
		}
	}

	s.editor = nil
	s.selector.Clear()
	s.svc.opts.Navigator.Navigate(ctx, PathCampaignManager)

	return ConfirmResult{Record: rec, Redirect: PathCampaignManager}, nil
}

// Cancel closes the editor without enqueuing anything.
func (s *Session) Cancel() {
	s.mu.Lock()
	s.editor = nil
	s.mu.Unlock()
	s.selector.Clear()
}

func (s *Session) reject(ctx context.Context, err error) error {
	s.svc.opts.Notifier.Notify(ctx, media.RejectionToast(err))
	if s.svc.opts.OnReject != nil {
		s.svc.opts.OnReject(media.RejectionReason(err))
	}
	return err
}
