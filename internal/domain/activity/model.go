package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeLessonCompleted ActivityType = "lesson_completed"
	TypeLessonReopened  ActivityType = "lesson_reopened"
	TypeConfidenceSet   ActivityType = "confidence_set"
	TypeNoteCreated     ActivityType = "note_created"
	TypeNoteUpdated     ActivityType = "note_updated"
	TypeNoteDeleted     ActivityType = "note_deleted"
	TypeEmailSent       ActivityType = "email_sent"
	TypeStreakReminder  ActivityType = "streak_reminder"
	TypeWeeklyDigest    ActivityType = "weekly_digest"
)

// ActivityEntry represents an event in the study log
type ActivityEntry struct {
	ID           string       `json:"id" db:"id"`
	LessonID     *string      `json:"lesson_id,omitempty" db:"lesson_id"`
	NoteID       *string      `json:"note_id,omitempty" db:"note_id"`
	ActivityType ActivityType `json:"type" db:"activity_type"`
	Summary      string       `json:"summary" db:"summary"`
	Details      string       `json:"details,omitempty" db:"details"` // JSON string
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
