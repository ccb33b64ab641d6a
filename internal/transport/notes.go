package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rpggio/studytrail/internal/domain/notes"
)

type createNoteRequest struct {
	LessonID     string          `json:"lessonId"`
	SelectedText string          `json:"selectedText"`
	NoteContent  string          `json:"noteContent"`
	PositionData json.RawMessage `json:"positionData,omitempty"`
}

type updateNoteRequest struct {
	NoteID      string `json:"noteId"`
	NoteContent string `json:"noteContent"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	lessonID := strings.TrimSpace(r.URL.Query().Get("lessonId"))
	if lessonID == "" {
		writeJSONError(w, http.StatusBadRequest, "Lesson ID is required")
		return
	}
	list, err := s.svc.Notes.List(r.Context(), lessonID)
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch notes")
		return
	}
	if list == nil {
		list = []notes.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": list})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// "null" is how clients send an absent selection position.
	if string(req.PositionData) == "null" {
		req.PositionData = nil
	}
	note, err := s.svc.Notes.Create(r.Context(), notes.CreateRequest{
		LessonID:     req.LessonID,
		SelectedText: req.SelectedText,
		NoteContent:  req.NoteContent,
		PositionData: req.PositionData,
	})
	if err != nil {
		writeError(w, s.logger, err, "Failed to create note")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"note": note})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	note, err := s.svc.Notes.Update(r.Context(), req.NoteID, req.NoteContent)
	if err != nil {
		writeError(w, s.logger, err, "Failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": note})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := strings.TrimSpace(r.URL.Query().Get("noteId"))
	if noteID == "" {
		writeJSONError(w, http.StatusBadRequest, "Note ID is required")
		return
	}
	if err := s.svc.Notes.Delete(r.Context(), noteID); err != nil {
		writeError(w, s.logger, err, "Failed to delete note")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Note deleted successfully"})
}
