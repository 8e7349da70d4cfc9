// Package campaign wires the editing workflow of one campaign: clip
// selection through the duration gate, trimming, and handing the result to
// the upload queue. It also keeps the campaign records themselves.
package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/store"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

type Options struct {
	Catalog         *media.Catalog
	Notifier        notify.Notifier
	Navigator       Navigator
	MaxUploadBytes  int64
	DefaultDuration string

	// OnReject is told the reason code of every rejected action.
	OnReject func(reason string)
	Logger   *slog.Logger
}

type Service struct {
	blobs store.Blobs
	queue *uploads.Queue
	opts  Options

	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(blobs store.Blobs, queue *uploads.Queue, opts Options) *Service {
	if opts.Catalog == nil {
		opts.Catalog = media.DefaultCatalog()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.DefaultDuration == "" {
		opts.DefaultDuration = uploads.DefaultDuration
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Navigator == nil {
		opts.Navigator = LogNavigator{Logger: logger}
	}

	return &Service{
		blobs:    blobs,
		queue:    queue,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (s *Service) Catalog() *media.Catalog {
	return s.opts.Catalog
}

func (s *Service) Create(ctx context.Context, name string) (Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.validationFailed(ctx)
		return Campaign{}, ErrCampaignNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns, err := s.load(ctx)
	if err != nil {
		return Campaign{}, err
	}

	now := s.now()
	c := Campaign{
		ID:           uuid.NewString(),
		CampaignName: name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	campaigns = append(campaigns, c)
	if err := s.save(ctx, campaigns); err != nil {
		return Campaign{}, err
	}

	s.logger.Info("campaign created", "campaign_id", c.ID, "name", name)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns, err := s.load(ctx)
	if err != nil {
		return Campaign{}, err
	}
	for _, c := range campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return Campaign{}, ErrCampaignNotFound
}

func (s *Service) List(ctx context.Context) ([]Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Update renames a campaign. On success the user is sent back home.
func (s *Service) Update(ctx context.Context, id, name string) (Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.validationFailed(ctx)
		return Campaign{}, ErrCampaignNameRequired
	}

	c, err := s.modify(ctx, id, func(c *Campaign) {
		c.CampaignName = name
	})
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			s.notFound(ctx)
		}
		return Campaign{}, err
	}

	s.opts.Notifier.Notify(ctx, notify.Toast{
		Title:       "Success!",
		Description: fmt.Sprintf("Campaign %q updated successfully", name),
		Severity:    notify.SeverityInfo,
	})
	s.opts.Navigator.Navigate(ctx, PathHome)
	return c, nil
}

// Session returns the editing session for a campaign, creating it on first
// use. An unknown campaign notifies and sends the user home.
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCampaignNotFound) {
			s.notFound(ctx)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	sess := newSession(s, c)
	s.sessions[id] = sess
	return sess, nil
}

func (s *Service) setReference(ctx context.Context, id, reference string) error {
	_, err := s.modify(ctx, id, func(c *Campaign) {
		if c.ReferenceDuration == "" {
			c.ReferenceDuration = reference
		}
	})
	return err
}

func (s *Service) modify(ctx context.Context, id string, fn func(c *Campaign)) (Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns, err := s.load(ctx)
	if err != nil {
		return Campaign{}, err
	}
	for i := range campaigns {
		if campaigns[i].ID != id {
			continue
		}
		fn(&campaigns[i])
		campaigns[i].UpdatedAt = s.now()
		if err := s.save(ctx, campaigns); err != nil {
			return Campaign{}, err
		}
		return campaigns[i], nil
	}
	return Campaign{}, ErrCampaignNotFound
}

func (s *Service) validationFailed(ctx context.Context) {
	s.opts.Notifier.Notify(ctx, notify.Toast{
		Title:       "Validation Error",
		Description: "Campaign name is required",
		Severity:    notify.SeverityDestructive,
	})
}

func (s *Service) notFound(ctx context.Context) {
	s.opts.Notifier.Notify(ctx, notify.Toast{
		Title:       "Error",
		Description: "Campaign not found",
		Severity:    notify.SeverityDestructive,
	})
	s.opts.Navigator.Navigate(ctx, PathHome)
}

func (s *Service) load(ctx context.Context) ([]Campaign, error) {
	data, err := s.blobs.Load(ctx, store.KeyCampaigns)
	if err != nil {
		return nil, fmt.Errorf("load campaigns: %w", err)
	}
	campaigns := []Campaign{}
	if len(data) == 0 {
		return campaigns, nil
	}
	if err := json.Unmarshal(data, &campaigns); err != nil {
		s.logger.Warn("discarding unreadable campaigns document", "error", err)
		return []Campaign{}, nil
	}
	return campaigns, nil
}

func (s *Service) save(ctx context.Context, campaigns []Campaign) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return fmt.Errorf("encode campaigns: %w", err)
	}
	return s.blobs.Save(ctx, store.KeyCampaigns, data)
}
