package notes

import (
	"context"

	"github.com/rpggio/studytrail/internal/domain/activity"
)

// Repository provides persistence for notes.
type Repository interface {
	Create(ctx context.Context, note *Note) error
	Get(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id string) error
	ListByLesson(ctx context.Context, lessonID string) ([]Note, error)
}

// ActivityRepository logs note activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
