package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/config"
	"github.com/fastchannel/fastchannel-console/internal/media"
	"github.com/fastchannel/fastchannel-console/internal/notify"
	"github.com/fastchannel/fastchannel-console/internal/timecode"
	"github.com/fastchannel/fastchannel-console/internal/uploads"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	var observer RequestObserver
	if cfg.Metrics != nil {
		observer = cfg.Metrics
	}

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger, observer))
	r.Use(CORS())
	r.Use(NavigationMiddleware())

	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Get("/catalog/{tab}", catalogHandler(cfg))
	r.Get("/timecode/normalize", normalizeHandler())
	r.Get("/toasts", toastsHandler(cfg))

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", createCampaignHandler(cfg))
		r.Get("/", listCampaignsHandler(cfg))
		r.Get("/{id}", getCampaignHandler(cfg))
		r.Put("/{id}", updateCampaignHandler(cfg))
		r.Post("/{id}/select", selectClipHandler(cfg))
		r.Get("/{id}/editor", getEditorHandler(cfg))
		r.Delete("/{id}/editor", cancelEditorHandler(cfg))
		r.Put("/{id}/trim", trimHandler(cfg))
		r.Post("/{id}/confirm", confirmHandler(cfg))
	})

	r.Get("/uploads", listUploadsHandler(cfg))
	r.Delete("/uploads/{id}", cancelUploadHandler(cfg))

	r.Get("/library", listLibraryHandler(cfg))
	r.Post("/library/move", moveVideoHandler(cfg))
	r.Delete("/library/{id}", removeVideoHandler(cfg))
	r.Get("/library/export.edl", downloadEDLHandler(cfg))
	r.With(LoopbackGuard()).Post("/library/export", exportEDLHandler(cfg))

	r.Post("/simulator/pause", pauseHandler(cfg, true))
	r.Post("/simulator/resume", pauseHandler(cfg, false))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		inFlight, err := cfg.Queue.InFlight(ctx)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to read upload queue", "INTERNAL_ERROR")
			return
		}
		library, err := cfg.Queue.Library(ctx)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to read video library", "INTERNAL_ERROR")
			return
		}

		resp := StatusResponse{
			State:       "idle",
			InFlight:    inFlight,
			LibrarySize: len(library),
		}
		if inFlight > 0 {
			resp.State = "uploading"
		}
		if cfg.Simulator != nil {
			resp.Simulating = cfg.Simulator.Active()
			resp.Paused = cfg.Simulator.IsPaused()
			if resp.Paused {
				resp.State = "paused"
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func catalogHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab := chi.URLParam(r, "tab")
		query := r.URL.Query().Get("q")

		clips, ok := cfg.Campaigns.Catalog().Search(tab, query)
		if !ok {
			WriteError(w, http.StatusNotFound, "unknown catalog tab", "NOT_FOUND")
			return
		}
		if clips == nil {
			clips = []media.Clip{}
		}
		WriteJSON(w, http.StatusOK, CatalogResponse{Tab: tab, Query: query, Clips: clips})
	}
}

func normalizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := r.URL.Query().Get("t")
		WriteJSON(w, http.StatusOK, NormalizeResponse{
			Input:      t,
			Normalized: timecode.Normalize(t),
			Seconds:    timecode.ParseSeconds(t),
			Strict:     timecode.IsStrict(t),
		})
	}
}

func toastsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := ToastsResponse{Toasts: nil}
		if cfg.Toasts != nil {
			resp.Toasts = cfg.Toasts.Toasts()
		}
		if resp.Toasts == nil {
			resp.Toasts = []notify.Toast{}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func listUploadsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := cfg.Queue.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list uploads", "INTERNAL_ERROR")
			return
		}
		if records == nil {
			records = []uploads.Record{}
		}
		WriteJSON(w, http.StatusOK, UploadsResponse{Uploads: records})
	}
}

func cancelUploadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		var err error
		if cfg.Simulator != nil {
			err = cfg.Simulator.Cancel(r.Context(), id)
		} else {
			err = cfg.Queue.Remove(r.Context(), id)
		}
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listLibraryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		library, err := cfg.Queue.Library(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list library", "INTERNAL_ERROR")
			return
		}
		if library == nil {
			library = []uploads.LibraryEntry{}
		}
		WriteJSON(w, http.StatusOK, LibraryResponse{Videos: library})
	}
}

func moveVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		library, err := cfg.Queue.MoveVideo(r.Context(), req.From, req.To)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, LibraryResponse{Videos: library})
	}
}

func removeVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := cfg.Queue.RemoveVideo(r.Context(), id); err != nil {
			writeDomainError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pauseHandler(cfg ServerConfig, pause bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Simulator == nil {
			WriteError(w, http.StatusServiceUnavailable, "simulator not running", "UNAVAILABLE")
			return
		}
		if pause {
			cfg.Simulator.Pause()
		} else {
			cfg.Simulator.Resume()
		}
		WriteJSON(w, http.StatusOK, SimulatorResponse{Paused: cfg.Simulator.IsPaused()})
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "id must be an integer", "BAD_REQUEST")
		return 0, false
	}
	return id, true
}

// writeDomainError maps workflow errors to HTTP responses. Rejections use
// their reason code.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	redirect := redirectFrom(r)

	if reason := media.RejectionReason(err); reason != "" {
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: reason, Redirect: redirect})
		return
	}

	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, campaign.ErrCampaignNotFound),
		errors.Is(err, uploads.ErrNotFound),
		errors.Is(err, media.ErrClipNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, campaign.ErrCampaignNameRequired):
		status, code = http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, campaign.ErrNoClipSelected):
		status, code = http.StatusConflict, "NO_CLIP_SELECTED"
	case errors.Is(err, uploads.ErrIndexOutOfRange):
		status, code = http.StatusBadRequest, "INDEX_OUT_OF_RANGE"
	}
	WriteJSON(w, status, ErrorResponse{Error: err.Error(), Code: code, Redirect: redirect})
}
