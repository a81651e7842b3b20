package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/turboplaylist/turboplaylist/internal/archive"
	"github.com/turboplaylist/turboplaylist/internal/format"
	"github.com/turboplaylist/turboplaylist/internal/model"
	"github.com/turboplaylist/turboplaylist/internal/session"
	"github.com/turboplaylist/turboplaylist/internal/ytdlp"
)

// errorResponse is the JSON envelope for request failures.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	s.writeJSON(w, status, resp)
}

// handleInfo resolves a source URL into the ordered item list, without
// variants.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "URL required", nil)
		return
	}

	items, err := s.probe.CollectionInfo(r.Context(), url)
	if err != nil {
		s.logger.Error("info resolution failed", zap.String("url", url), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch playlist info", err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

// formatsResponse wraps the variant list when the caller asks for the
// server-side default pick via the target query parameter.
type formatsResponse struct {
	Formats         []model.Variant `json:"formats"`
	DefaultFormatID string          `json:"defaultFormatId,omitempty"`
}

// handleFormats returns the available encoding variants for one item. With
// ?target=audio|video the response also carries the deterministic default
// pick for that target; without it the bare variant list is returned.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if itemID == "" {
		s.writeError(w, http.StatusBadRequest, "item id required", nil)
		return
	}

	variants, err := s.probe.Formats(r.Context(), itemID)
	if err != nil {
		s.logger.Error("format listing failed", zap.String("item", itemID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch item formats", err)
		return
	}

	if target := r.URL.Query().Get("target"); target != "" {
		resp := formatsResponse{Formats: variants}
		if id, ok := format.Pick(variants, format.ParseTarget(target)); ok {
			resp.DefaultFormatID = id
		}
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, variants)
}

// handleDownload streams the session directory as a zip attachment and
// reclaims the directory once the response has fully completed. An aborted
// response leaves the directory for the TTL sweep.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	dir, err := s.store.Dir(sessionID)
	if errors.Is(err, session.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "expired or invalid session", nil)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="playlist.zip"`)

	if err := archive.StreamZip(w, dir); err != nil {
		// Headers are gone; all we can do is log and keep the directory.
		s.logger.Error("archive stream failed", zap.String("session", sessionID), zap.Error(err))
		return
	}

	if err := s.store.Remove(sessionID); err != nil {
		s.logger.Warn("failed to reclaim session after archive",
			zap.String("session", sessionID), zap.Error(err))
		return
	}
	s.logger.Info("session archived and reclaimed", zap.String("session", sessionID))
}

// handleTranscoderHealth reports whether the transcoding tool is installed.
func (s *Server) handleTranscoderHealth(w http.ResponseWriter, r *http.Request) {
	available := ytdlp.TranscoderAvailable(r.Context(), s.cfg.FFmpegPath)
	s.writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}
