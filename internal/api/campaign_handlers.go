package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastchannel/fastchannel-console/internal/campaign"
	"github.com/fastchannel/fastchannel-console/internal/trim"
)

func createCampaignHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		c, err := cfg.Campaigns.Create(r.Context(), req.CampaignName)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, CampaignToResponse(c))
	}
}

func listCampaignsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaigns, err := cfg.Campaigns.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list campaigns", "INTERNAL_ERROR")
			return
		}

		resp := CampaignsResponse{Campaigns: make([]CampaignResponse, len(campaigns))}
		for i, c := range campaigns {
			resp.Campaigns[i] = CampaignToResponse(c)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getCampaignHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := cfg.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusOK, CampaignToResponse(c))
	}
}

func updateCampaignHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		c, err := cfg.Campaigns.Update(r.Context(), chi.URLParam(r, "id"), req.CampaignName)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		resp := CampaignToResponse(c)
		resp.Redirect = redirectFrom(r)
		WriteJSON(w, http.StatusOK, resp)
	}
}

func selectClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		sess, ok := session(cfg, w, r)
		if !ok {
			return
		}

		var (
			editor *trim.Editor
			err    error
		)
		switch {
		case req.File != nil:
			editor, err = sess.SelectFile(r.Context(), *req.File)
		case req.URL != "":
			editor, err = sess.SelectURL(r.Context(), req.URL)
		case req.Tab != "" && req.ClipID != "":
			editor, err = sess.SelectCatalog(r.Context(), req.Tab, req.ClipID)
		default:
			WriteError(w, http.StatusBadRequest, "one of file, url or tab and clip_id is required", "BAD_REQUEST")
			return
		}
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeEditor(w, sess, editor)
	}
}

func getEditorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(cfg, w, r)
		if !ok {
			return
		}
		editor, open := sess.Editor()
		if !open {
			writeDomainError(w, r, campaign.ErrNoClipSelected)
			return
		}
		writeEditor(w, sess, editor)
	}
}

func cancelEditorHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(cfg, w, r)
		if !ok {
			return
		}
		sess.Cancel()
		w.WriteHeader(http.StatusNoContent)
	}
}

func trimHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		sess, ok := session(cfg, w, r)
		if !ok {
			return
		}
		editor, err := sess.SetTrim(r.Context(), req.In, req.Out)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeEditor(w, sess, editor)
	}
}

func confirmHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session(cfg, w, r)
		if !ok {
			return
		}
		res, err := sess.Confirm(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		WriteJSON(w, http.StatusCreated, ConfirmResponse{Record: res.Record, Redirect: res.Redirect})
	}
}

func session(cfg ServerConfig, w http.ResponseWriter, r *http.Request) (*campaign.Session, bool) {
	sess, err := cfg.Campaigns.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

func writeEditor(w http.ResponseWriter, sess *campaign.Session, editor *trim.Editor) {
	ref, _ := sess.Reference()
	WriteJSON(w, http.StatusOK, EditorToResponse(editor, ref))
}
