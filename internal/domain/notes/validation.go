package notes

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidateCreateInput checks that the required note fields are present.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.LessonID) == "" {
		return fmt.Errorf("%w: lesson id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.SelectedText) == "" {
		return fmt.Errorf("%w: selected text is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.NoteContent) == "" {
		return fmt.Errorf("%w: note content is required", ErrInvalidInput)
	}
	if len(req.PositionData) > 0 && !json.Valid(req.PositionData) {
		return fmt.Errorf("%w: position data must be JSON", ErrInvalidInput)
	}
	return nil
}
