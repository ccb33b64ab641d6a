package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/repository"
)

var (
	_ progress.Repository      = (*ProgressRepository)(nil)
	_ progress.StatsRepository = (*StatsRepository)(nil)
)

const progressColumns = `lesson_id, title, estimated_hours, completed_at, confidence_level, created_at, updated_at`

// ProgressRepository implements progress.Repository
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the progress row of a lesson
func (r *ProgressRepository) Get(ctx context.Context, lessonID string) (*progress.Progress, error) {
	var p progress.Progress
	query := r.db.Rebind(`SELECT ` + progressColumns + ` FROM progress WHERE lesson_id = ?`)
	if err := r.db.GetContext(ctx, &p, query, lessonID); err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// Upsert inserts or replaces the progress row of a lesson
func (r *ProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	query := r.db.Rebind(`
		INSERT INTO progress (` + progressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (lesson_id) DO UPDATE SET
			title = excluded.title,
			estimated_hours = excluded.estimated_hours,
			completed_at = excluded.completed_at,
			confidence_level = excluded.confidence_level,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		p.LessonID,
		p.Title,
		p.EstimatedHours,
		nullTime(p.CompletedAt),
		nullInt(p.ConfidenceLevel),
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		if isCheckViolation(err) {
			return repository.ErrInvalidInput
		}
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// List returns every progress row ordered by lesson id
func (r *ProgressRepository) List(ctx context.Context) ([]progress.Progress, error) {
	rows := []progress.Progress{}
	query := `SELECT ` + progressColumns + ` FROM progress ORDER BY lesson_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}

// CompletedSince returns rows completed at or after since, newest first
func (r *ProgressRepository) CompletedSince(ctx context.Context, since time.Time) ([]progress.Progress, error) {
	rows := []progress.Progress{}
	query := r.db.Rebind(`
		SELECT ` + progressColumns + `
		FROM progress
		WHERE completed_at IS NOT NULL AND completed_at >= ?
		ORDER BY completed_at DESC
	`)
	if err := r.db.SelectContext(ctx, &rows, query, since.UTC()); err != nil {
		return nil, fmt.Errorf("failed to list recent completions: %w", err)
	}
	return rows, nil
}

// StatsRepository implements progress.StatsRepository
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const statsRowID = 1

// Get returns the stats row
func (r *StatsRepository) Get(ctx context.Context) (*progress.Stats, error) {
	var stats progress.Stats
	query := r.db.Rebind(`
		SELECT current_streak, longest_streak, total_lessons_completed,
			total_hours_studied, last_study_date, updated_at
		FROM user_stats
		WHERE id = ?
	`)
	if err := r.db.GetContext(ctx, &stats, query, statsRowID); err != nil {
		return nil, mapNotFound(err)
	}
	return &stats, nil
}

// Save writes the stats row
func (r *StatsRepository) Save(ctx context.Context, stats *progress.Stats) error {
	query := r.db.Rebind(`
		INSERT INTO user_stats (
			id, current_streak, longest_streak, total_lessons_completed,
			total_hours_studied, last_study_date, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			total_lessons_completed = excluded.total_lessons_completed,
			total_hours_studied = excluded.total_hours_studied,
			last_study_date = excluded.last_study_date,
			updated_at = excluded.updated_at
	`)

	updatedAt := stats.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		statsRowID,
		stats.CurrentStreak,
		stats.LongestStreak,
		stats.TotalLessonsCompleted,
		stats.TotalHoursStudied,
		nullTime(stats.LastStudyDate),
		updatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}
