package transport

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

type lessonContentResponse struct {
	Lesson      progress.LessonProgress `json:"lesson"`
	Content     string                  `json:"content"`
	FrontMatter map[string]any          `json:"frontMatter,omitempty"`
	Notes       []notes.Note            `json:"notes"`
	Anchors     []notes.Anchor          `json:"anchors"`
	// Highlighted is Content with anchored spans wrapped in <mark> tags,
	// present only when ?highlight=true.
	Highlighted string `json:"highlighted,omitempty"`
}

func markOpen(a notes.Anchor) string {
	return `<mark data-note-id="` + html.EscapeString(a.NoteID) + `">`
}

func markClose(notes.Anchor) string { return "</mark>" }

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	phases, err := s.svc.Progress.Overview(r.Context())
	if err != nil {
		writeError(w, s.logger, err, "Failed to load content")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"phases": phases})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.Content.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, s.logger, err, "Failed to search content")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.lessonProgress(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch lesson")
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleLessonContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lesson, err := s.lessonProgress(r, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch lesson")
		return
	}
	body, err := s.svc.Content.ReadLesson(ctx, lesson.ContentFile)
	if err != nil {
		writeError(w, s.logger, err, "Failed to read lesson")
		return
	}
	lessonNotes, anchors, err := s.svc.Notes.AnchorsForLesson(ctx, lesson.ID, body.Markdown)
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch notes")
		return
	}
	if lessonNotes == nil {
		lessonNotes = []notes.Note{}
	}
	if anchors == nil {
		anchors = []notes.Anchor{}
	}
	resp := lessonContentResponse{
		Lesson:      *lesson,
		Content:     body.Markdown,
		FrontMatter: body.FrontMatter,
		Notes:       lessonNotes,
		Anchors:     anchors,
	}
	if highlight, _ := strconv.ParseBool(r.URL.Query().Get("highlight")); highlight {
		resp.Highlighted = notes.Highlight(body.Markdown, anchors, markOpen, markClose)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.svc.Content.ListFiles(r.Context())
	if err != nil {
		writeError(w, s.logger, err, "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	file := strings.TrimSpace(r.URL.Query().Get("file"))
	if file == "" {
		writeJSONError(w, http.StatusBadRequest, "File parameter required")
		return
	}
	body, err := s.svc.Content.ReadFile(r.Context(), file)
	if err != nil {
		writeError(w, s.logger, err, "Failed to read file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"content": body.Raw})
}

func (s *Server) lessonProgress(r *http.Request, id string) (*progress.LessonProgress, error) {
	ctx := r.Context()
	lesson, err := s.svc.Content.FindLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &progress.LessonProgress{ContentFile: *lesson}
	p, err := s.svc.Progress.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		out.Completed = p.Completed()
		out.CompletedAt = p.CompletedAt
		out.ConfidenceLevel = p.ConfidenceLevel
	}
	return out, nil
}
