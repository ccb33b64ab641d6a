package progress

import (
	"time"

	"github.com/rpggio/studytrail/internal/domain/content"
)

// Progress is the persisted completion state of one lesson.
type Progress struct {
	LessonID        string     `json:"lesson_id" db:"lesson_id"`
	Title           string     `json:"title" db:"title"`
	EstimatedHours  float64    `json:"estimated_hours" db:"estimated_hours"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	ConfidenceLevel *int       `json:"confidence_level,omitempty" db:"confidence_level"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Completed reports whether the lesson is currently marked complete.
func (p Progress) Completed() bool {
	return p.CompletedAt != nil
}

// Stats is the single aggregate row of study statistics.
type Stats struct {
	CurrentStreak         int        `json:"current_streak" db:"current_streak"`
	LongestStreak         int        `json:"longest_streak" db:"longest_streak"`
	TotalLessonsCompleted int        `json:"total_lessons_completed" db:"total_lessons_completed"`
	TotalHoursStudied     float64    `json:"total_hours_studied" db:"total_hours_studied"`
	LastStudyDate         *time.Time `json:"last_study_date,omitempty" db:"last_study_date"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// ToggleResult describes the outcome of a completion toggle.
type ToggleResult struct {
	Progress  Progress `json:"progress"`
	Completed bool     `json:"completed"`
	Stats     Stats    `json:"stats"`
	Milestone string   `json:"milestone,omitempty"`
}

// LessonProgress is a discovered lesson merged with its persisted state.
type LessonProgress struct {
	content.ContentFile
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	ConfidenceLevel *int       `json:"confidence_level,omitempty"`
}

// PhaseProgress is a discovered phase with per-lesson completion.
type PhaseProgress struct {
	ID          string           `json:"id"`
	Number      int              `json:"number"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	WeekStart   int              `json:"week_start"`
	WeekEnd     int              `json:"week_end"`
	Completed   int              `json:"completed"`
	Total       int              `json:"total"`
	Lessons     []LessonProgress `json:"lessons"`
}

// ReminderResult reports a streak reminder check.
type ReminderResult struct {
	Sent          bool `json:"streakReminderSent"`
	CurrentStreak int  `json:"currentStreak"`
	DaysSince     int  `json:"daysSinceLastStudy"`
}

// DigestResult reports a weekly progress check.
type DigestResult struct {
	LessonsThisWeek int     `json:"lessonsThisWeek"`
	HoursThisWeek   float64 `json:"hoursThisWeek"`
	Sent            bool    `json:"emailSent"`
}

// Milestone is an achievement announced after a completion.
type Milestone struct {
	Title   string
	Message string
}

var (
	milestoneFirstTen = Milestone{
		Title:   "First 10 Lessons Complete!",
		Message: "You've completed your first 10 lessons! This shows real dedication to mastering system design and coding skills.",
	}
	milestoneWeekStreak = Milestone{
		Title:   "Week-Long Streak Master!",
		Message: "Seven days in a row! You're building the kind of consistent study habits that lead to FAANG success.",
	}
	milestoneMonthStreak = Milestone{
		Title:   "Monthly Consistency Champion!",
		Message: "Thirty days of consistent learning! You're in the top 1% of dedicated learners. FAANG companies will love this commitment!",
	}
)

// MilestoneFor picks at most one achievement for the given totals.
func MilestoneFor(totalCompleted, streak int) (Milestone, bool) {
	switch {
	case totalCompleted == 10:
		return milestoneFirstTen, true
	case streak == 7:
		return milestoneWeekStreak, true
	case streak == 30:
		return milestoneMonthStreak, true
	}
	return Milestone{}, false
}

const (
	defaultConfidence = 3
	minConfidence     = 1
	maxConfidence     = 5
	streakWindowDays  = 30
	digestWindowDays  = 7
)
