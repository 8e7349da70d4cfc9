package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fastchannel/fastchannel-console/internal/export"
)

func downloadEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := export.SanitizeName(r.URL.Query().Get("title"), 120)
		if title == "" {
			title = export.DefaultTitle
		}

		frameRate := export.DefaultFrameRate
		if fps := r.URL.Query().Get("fps"); fps != "" {
			v, err := strconv.ParseFloat(fps, 64)
			if err != nil || v <= 0 {
				WriteError(w, http.StatusBadRequest, "fps must be a positive number", "BAD_REQUEST")
				return
			}
			frameRate = v
		}

		library, err := cfg.Queue.Library(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list library", "INTERNAL_ERROR")
			return
		}
		events, _ := export.FromLibrary(library)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+title+`.edl"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(export.GenerateEDL(events, title, frameRate)))
	}
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		title := export.SanitizeName(req.Title, 120)
		if title == "" {
			title = export.DefaultTitle
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = export.DefaultFrameRate
		}

		library, err := cfg.Queue.Library(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list library", "INTERNAL_ERROR")
			return
		}

		events, skipped := export.FromLibrary(library)
		if len(events) == 0 {
			WriteError(w, http.StatusUnprocessableEntity, "library has no exportable videos", "EMPTY_LIBRARY")
			return
		}

		path, err := export.WriteEDL(req.OutputDir, title, export.GenerateEDL(events, title, frameRate))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, export.Response{
			Status:     "ok",
			Format:     "edl",
			OutputPath: path,
			EventCount: len(events),
			Skipped:    skipped,
		})
	}
}
