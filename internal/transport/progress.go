package transport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

type toggleRequest struct {
	LessonID string `json:"lessonId"`
}

type toggleResponse struct {
	Success bool `json:"success"`
	*progress.ToggleResult
}

type confidenceRequest struct {
	Level int `json:"level"`
}

func (s *Server) handleToggleProgress(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.LessonID) == "" {
		writeJSONError(w, http.StatusBadRequest, "Lesson ID is required")
		return
	}
	result, err := s.svc.Progress.Toggle(r.Context(), req.LessonID)
	if err != nil {
		writeError(w, s.logger, err, "Failed to update progress")
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Success: true, ToggleResult: result})
}

func (s *Server) handleSetConfidence(w http.ResponseWriter, r *http.Request) {
	var req confidenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.svc.Progress.SetConfidence(r.Context(), chi.URLParam(r, "id"), req.Level)
	if err != nil {
		writeError(w, s.logger, err, "Failed to update confidence")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Progress.Stats(r.Context())
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
