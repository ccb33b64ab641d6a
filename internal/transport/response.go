package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/studytrail/internal/assistant"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeError maps domain errors to status codes. Client errors carry the
// error text; anything unexpected is logged and answered with fallback.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, content.ErrLessonNotFound),
		errors.Is(err, progress.ErrLessonNotFound),
		errors.Is(err, content.ErrFileNotFound),
		errors.Is(err, notes.ErrNoteNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, content.ErrInvalidPath),
		errors.Is(err, content.ErrInvalidLessonID),
		errors.Is(err, notes.ErrInvalidInput),
		errors.Is(err, progress.ErrInvalidInput),
		errors.Is(err, assistant.ErrInvalidInput):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrContentUnavailable),
		errors.Is(err, assistant.ErrUnavailable):
		logger.Warn("dependency unavailable", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error(fallback, "error", err)
		writeJSONError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
