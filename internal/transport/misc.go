package transport

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpggio/studytrail/internal/assistant"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/report"
	"github.com/rpggio/studytrail/internal/scheduler"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req assistant.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = assistant.TypeChat
	}
	if s.svc.Assistant == nil {
		writeError(w, s.logger, assistant.ErrUnavailable, "Failed to process AI request")
		return
	}
	resp, err := s.svc.Assistant.Respond(r.Context(), req)
	if err != nil {
		writeError(w, s.logger, err, "Failed to process AI request")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts activity.ListActivityOptions
	if id := strings.TrimSpace(q.Get("lessonId")); id != "" {
		opts.LessonID = &id
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		opts.Limit = limit
	}
	entries, err := s.svc.Activity.Recent(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err, "Failed to fetch activity")
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	phases, err := s.svc.Progress.Overview(ctx)
	if err != nil {
		writeError(w, s.logger, err, "Failed to export progress")
		return
	}
	stats, err := s.svc.Progress.Stats(ctx)
	if err != nil {
		writeError(w, s.logger, err, "Failed to export progress")
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, phases, stats); err != nil {
		writeError(w, s.logger, err, "Failed to export progress")
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="studytrail-progress.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

type reminderResponse struct {
	Message string `json:"message"`
	*progress.ReminderResult
}

type digestResponse struct {
	Message string `json:"message"`
	*progress.DigestResult
}

func (s *Server) handleStreakReminder(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Jobs.RunNow(r.Context(), scheduler.JobStreakReminder)
	if err != nil {
		writeError(w, s.logger, err, "Failed to process streak reminder")
		return
	}
	res, _ := result.(*progress.ReminderResult)
	if res == nil {
		res = &progress.ReminderResult{}
	}
	writeJSON(w, http.StatusOK, reminderResponse{Message: "Streak reminder check completed", ReminderResult: res})
}

func (s *Server) handleWeeklyProgress(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.Jobs.RunNow(r.Context(), scheduler.JobWeeklyProgress)
	if err != nil {
		writeError(w, s.logger, err, "Failed to process weekly progress")
		return
	}
	res, _ := result.(*progress.DigestResult)
	if res == nil {
		res = &progress.DigestResult{}
	}
	writeJSON(w, http.StatusOK, digestResponse{Message: "Weekly progress check completed", DigestResult: res})
}
