package api

import (
	"time"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/trim"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State       string `json:"state"`
	InFlight    int    `json:"in_flight"`
	Simulating  int    `json:"simulating"`
	Paused      bool   `json:"paused"`
	LibrarySize int    `json:"library_size"`
}

type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type CatalogResponse struct {
	Tab   string       `json:"tab"`
	Query string       `json:"query,omitempty"`
	Clips []media.Clip `json:"clips"`
}

type CampaignRequest struct {
	CampaignName string `json:"campaignName"`
}

type CampaignResponse struct {
	ID                string `json:"id"`
	CampaignName      string `json:"campaignName"`
	ReferenceDuration string `json:"referenceDuration,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
	Redirect          string `json:"redirect,omitempty"`
}

type CampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
}

// SelectRequest picks a clip by catalog entry, URL or local file. Exactly
// one form is expected.
type SelectRequest struct {
	Tab    string           `json:"tab,omitempty"`
	ClipID string           `json:"clip_id,omitempty"`
	URL    string           `json:"url,omitempty"`
	File   *media.LocalFile `json:"file,omitempty"`
}

type TrimRequest struct {
	In  string `json:"in,omitempty"`
	Out string `json:"out,omitempty"`
}

type EditorResponse struct {
	Clip           media.Clip `json:"clip"`
	Duration       string     `json:"duration"`
	In             string     `json:"in"`
	Out            string     `json:"out"`
	Trimmed        string     `json:"trimmed"`
	TrimmedSeconds int        `json:"trimmed_seconds"`
	Changed        bool       `json:"changed"`
	Result         string     `json:"result"`
	Reference      string     `json:"reference,omitempty"`
}

type ConfirmResponse struct {
	Record   uploads.Record `json:"record"`
	Redirect string         `json:"redirect"`
}

type UploadsResponse struct {
	Uploads []uploads.Record `json:"uploads"`
}

type LibraryResponse struct {
	Videos []uploads.LibraryEntry `json:"videos"`
}

type MoveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type NormalizeResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Seconds    int    `json:"seconds"`
	Strict     bool   `json:"strict"`
}

type SimulatorResponse struct {
	Paused bool `json:"paused"`
}

type ToastsResponse struct {
	Toasts []notify.Toast `json:"toasts"`
}

func CampaignToResponse(c campaign.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:                c.ID,
		CampaignName:      c.CampaignName,
		ReferenceDuration: c.ReferenceDuration,
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}
}

func EditorToResponse(e *trim.Editor, reference string) EditorResponse {
	return EditorResponse{
		Clip:           e.Clip(),
		Duration:       timecode.Format(e.Duration(), true),
		In:             e.InText(),
		Out:            e.OutText(),
		Trimmed:        e.Trimmed(),
		TrimmedSeconds: e.TrimmedSeconds(),
		Changed:        e.Changed(),
		Result:         e.Result(),
		Reference:      reference,
	}
}
