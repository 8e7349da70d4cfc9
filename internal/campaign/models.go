package campaign

import (
	"errors"
	"time"
)

var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNameRequired = errors.New("campaign name is required")
	ErrNoClipSelected       = errors.New("no clip selected")
)

// Navigation targets requested after a workflow step.
const (
	PathHome            = "/"
	PathCampaignManager = "/campaign-manager"
)

type Campaign struct {
	ID                string    `json:"id"`
	CampaignName      string    `json:"campaignName"`
	ReferenceDuration string    `json:"referenceDuration,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
