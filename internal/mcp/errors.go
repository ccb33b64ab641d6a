package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

// APIError is the error reported back to the calling agent.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, content.ErrLessonNotFound), errors.Is(err, progress.ErrLessonNotFound):
		return &APIError{Code: "LESSON_NOT_FOUND", Message: "lesson not found", RecoveryHint: "Use search_lessons or list_phases to find lesson ids"}
	case errors.Is(err, content.ErrContentUnavailable):
		return &APIError{Code: "CONTENT_UNAVAILABLE", Message: "content directory cannot be read"}
	case errors.Is(err, notes.ErrInvalidInput), errors.Is(err, progress.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, notes.ErrNoteNotFound):
		return &APIError{Code: "NOTE_NOT_FOUND", Message: "note not found", RecoveryHint: "Call list_notes for current note ids"}
	default:
		return nil
	}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
