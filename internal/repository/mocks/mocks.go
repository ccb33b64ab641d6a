package mocks

import (
	"context"
	"time"

	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/stretchr/testify/mock"
)

// NoteRepository is a mock for notes.Repository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Create(ctx context.Context, note *notes.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteRepository) Get(ctx context.Context, id string) (*notes.Note, error) {
	args := m.Called(ctx, id)
	if note, ok := args.Get(0).(*notes.Note); ok {
		return note, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) Update(ctx context.Context, note *notes.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *NoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NoteRepository) ListByLesson(ctx context.Context, lessonID string) ([]notes.Note, error) {
	args := m.Called(ctx, lessonID)
	if list, ok := args.Get(0).([]notes.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProgressRepository is a mock for progress.Repository.
type ProgressRepository struct {
	mock.Mock
}

func (m *ProgressRepository) Get(ctx context.Context, lessonID string) (*progress.Progress, error) {
	args := m.Called(ctx, lessonID)
	if p, ok := args.Get(0).(*progress.Progress); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProgressRepository) List(ctx context.Context) ([]progress.Progress, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]progress.Progress); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressRepository) CompletedSince(ctx context.Context, since time.Time) ([]progress.Progress, error) {
	args := m.Called(ctx, since)
	if list, ok := args.Get(0).([]progress.Progress); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StatsRepository is a mock for progress.StatsRepository.
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) Get(ctx context.Context) (*progress.Stats, error) {
	args := m.Called(ctx)
	if stats, ok := args.Get(0).(*progress.Stats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsRepository) Save(ctx context.Context, stats *progress.Stats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Notifier is a mock for progress.Notifier.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) LessonCompleted(ctx context.Context, lessonTitle string, streak int) error {
	args := m.Called(ctx, lessonTitle, streak)
	return args.Error(0)
}

func (m *Notifier) Achievement(ctx context.Context, title, message string) error {
	args := m.Called(ctx, title, message)
	return args.Error(0)
}

func (m *Notifier) StreakReminder(ctx context.Context, streak int) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}

func (m *Notifier) WeeklyProgress(ctx context.Context, lessons int, hours float64, streak int) error {
	args := m.Called(ctx, lessons, hours, streak)
	return args.Error(0)
}
