package progress

import (
	"context"
	"time"

	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/content"
)

// Repository provides persistence for lesson progress.
type Repository interface {
	Get(ctx context.Context, lessonID string) (*Progress, error)
	Upsert(ctx context.Context, p *Progress) error
	List(ctx context.Context) ([]Progress, error)
	CompletedSince(ctx context.Context, since time.Time) ([]Progress, error)
}

// StatsRepository provides persistence for the aggregate stats row.
type StatsRepository interface {
	Get(ctx context.Context) (*Stats, error)
	Save(ctx context.Context, stats *Stats) error
}

// Catalog resolves lessons against the content tree.
type Catalog interface {
	Discover(ctx context.Context) ([]content.Phase, error)
	FindLessonByID(ctx context.Context, id string) (*content.ContentFile, error)
}

// Notifier delivers progress emails.
type Notifier interface {
	LessonCompleted(ctx context.Context, lessonTitle string, streak int) error
	Achievement(ctx context.Context, title, message string) error
	StreakReminder(ctx context.Context, streak int) error
	WeeklyProgress(ctx context.Context, lessons int, hours float64, streak int) error
}

// ActivityRepository logs progress activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
