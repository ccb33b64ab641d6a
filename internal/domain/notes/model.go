package notes

import (
	"encoding/json"
	"time"
)

// Note is a free-form annotation attached to a passage of a lesson.
type Note struct {
	ID           string          `json:"id"`
	LessonID     string          `json:"lesson_id"`
	SelectedText string          `json:"selected_text"`
	NoteContent  string          `json:"note_content"`
	PositionData json.RawMessage `json:"position_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
