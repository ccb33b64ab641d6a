package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/repository"
)

// Service handles completion tracking, stats and progress emails.
type Service struct {
	progress   Repository
	stats      StatsRepository
	catalog    Catalog
	notifier   Notifier
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
	loc        *time.Location
}

// NewService creates a new progress service.
func NewService(progress Repository, stats StatsRepository, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		progress: progress,
		stats:    stats,
		catalog:  catalog,
		logger:   slog.Default(),
		now:      time.Now,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle flips the completion of a lesson and recomputes stats. A lesson
// with no progress row is recorded as completed with default confidence.
func (s *Service) Toggle(ctx context.Context, lessonID string) (*ToggleResult, error) {
	if lessonID == "" {
		return nil, fmt.Errorf("%w: lesson id is required", ErrInvalidInput)
	}
	lesson, err := s.lookupLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p, err := s.progress.Get(ctx, lessonID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		confidence := defaultConfidence
		p = &Progress{
			LessonID:        lessonID,
			Title:           lesson.Title,
			EstimatedHours:  lesson.EstimatedHours,
			CompletedAt:     &now,
			ConfidenceLevel: &confidence,
			CreatedAt:       now,
		}
	case err != nil:
		return nil, fmt.Errorf("getting progress: %w", err)
	case p.Completed():
		p.CompletedAt = nil
	default:
		p.CompletedAt = &now
	}
	p.Title = lesson.Title
	p.UpdatedAt = now

	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}

	stats, err := s.recomputeStats(ctx, now)
	if err != nil {
		return nil, err
	}

	result := &ToggleResult{Progress: *p, Completed: p.Completed(), Stats: *stats}
	if result.Completed {
		s.logActivity(ctx, lessonID, activity.TypeLessonCompleted, "Completed "+lesson.Title)
		result.Milestone = s.announceCompletion(ctx, lesson.Title, stats)
	} else {
		s.logActivity(ctx, lessonID, activity.TypeLessonReopened, "Reopened "+lesson.Title)
	}
	return result, nil
}

// SetConfidence records a 1-5 self-assessment for a lesson.
func (s *Service) SetConfidence(ctx context.Context, lessonID string, level int) (*Progress, error) {
	if lessonID == "" {
		return nil, fmt.Errorf("%w: lesson id is required", ErrInvalidInput)
	}
	if level < minConfidence || level > maxConfidence {
		return nil, fmt.Errorf("%w: confidence must be between %d and %d", ErrInvalidInput, minConfidence, maxConfidence)
	}
	lesson, err := s.lookupLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p, err := s.progress.Get(ctx, lessonID)
	if errors.Is(err, repository.ErrNotFound) {
		p = &Progress{
			LessonID:       lessonID,
			Title:          lesson.Title,
			EstimatedHours: lesson.EstimatedHours,
			CreatedAt:      now,
		}
	} else if err != nil {
		return nil, fmt.Errorf("getting progress: %w", err)
	}
	p.ConfidenceLevel = &level
	p.UpdatedAt = now

	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("saving progress: %w", err)
	}
	s.logActivity(ctx, lessonID, activity.TypeConfidenceSet, fmt.Sprintf("Confidence %d for %s", level, lesson.Title))
	return p, nil
}

// Get returns the persisted progress of a lesson, or nil when none exists.
func (s *Service) Get(ctx context.Context, lessonID string) (*Progress, error) {
	p, err := s.progress.Get(ctx, lessonID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting progress: %w", err)
	}
	return p, nil
}

// List returns every persisted progress row.
func (s *Service) List(ctx context.Context) ([]Progress, error) {
	rows, err := s.progress.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	return rows, nil
}

// Stats returns the aggregate stats, creating the row on first use.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.stats.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		stats = &Stats{UpdatedAt: s.now().UTC()}
		if err := s.stats.Save(ctx, stats); err != nil {
			return nil, fmt.Errorf("creating stats: %w", err)
		}
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return stats, nil
}

// Overview merges discovered phases with persisted completion state.
func (s *Service) Overview(ctx context.Context) ([]PhaseProgress, error) {
	phases, err := s.catalog.Discover(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.progress.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	byLesson := make(map[string]Progress, len(rows))
	for _, row := range rows {
		byLesson[row.LessonID] = row
	}

	out := make([]PhaseProgress, 0, len(phases))
	for _, phase := range phases {
		pp := PhaseProgress{
			ID:          phase.ID,
			Number:      phase.Number,
			Name:        phase.Name,
			Description: phase.Description,
			WeekStart:   phase.WeekStart,
			WeekEnd:     phase.WeekEnd,
			Total:       len(phase.Lessons),
			Lessons:     make([]LessonProgress, 0, len(phase.Lessons)),
		}
		for _, lesson := range phase.Lessons {
			lp := LessonProgress{ContentFile: lesson}
			if row, ok := byLesson[lesson.ID]; ok {
				lp.Completed = row.Completed()
				lp.CompletedAt = row.CompletedAt
				lp.ConfidenceLevel = row.ConfidenceLevel
			}
			if lp.Completed {
				pp.Completed++
			}
			pp.Lessons = append(pp.Lessons, lp)
		}
		out = append(out, pp)
	}
	return out, nil
}

// StreakReminder emails a reminder when a streak is active but nothing was
// studied today.
func (s *Service) StreakReminder(ctx context.Context, now time.Time) (*ReminderResult, error) {
	stats, err := s.stats.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return &ReminderResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}

	result := &ReminderResult{CurrentStreak: stats.CurrentStreak}
	if stats.LastStudyDate != nil {
		result.DaysSince = DaysBetween(*stats.LastStudyDate, now, s.loc)
	}
	if stats.LastStudyDate == nil || result.DaysSince < 1 || stats.CurrentStreak <= 0 {
		return result, nil
	}

	if s.notifier == nil {
		s.logger.Debug("streak reminder due but no notifier configured", "streak", stats.CurrentStreak)
		return result, nil
	}
	if err := s.notifier.StreakReminder(ctx, stats.CurrentStreak); err != nil {
		s.logger.Error("sending streak reminder", "error", err)
		return result, nil
	}
	result.Sent = true
	s.logActivity(ctx, "", activity.TypeStreakReminder, fmt.Sprintf("Streak reminder for %d-day streak", stats.CurrentStreak))
	return result, nil
}

// WeeklyDigest emails the last seven days of progress when anything was completed.
func (s *Service) WeeklyDigest(ctx context.Context, now time.Time) (*DigestResult, error) {
	since := Day(now, s.loc).AddDate(0, 0, -digestWindowDays)
	rows, err := s.progress.CompletedSince(ctx, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("listing recent completions: %w", err)
	}

	result := &DigestResult{LessonsThisWeek: len(rows)}
	for _, row := range rows {
		result.HoursThisWeek += row.EstimatedHours
	}
	if result.LessonsThisWeek == 0 {
		return result, nil
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.notifier == nil {
		s.logger.Debug("weekly digest due but no notifier configured", "lessons", result.LessonsThisWeek)
		return result, nil
	}
	if err := s.notifier.WeeklyProgress(ctx, result.LessonsThisWeek, result.HoursThisWeek, stats.CurrentStreak); err != nil {
		s.logger.Error("sending weekly digest", "error", err)
		return result, nil
	}
	result.Sent = true
	s.logActivity(ctx, "", activity.TypeWeeklyDigest, fmt.Sprintf("Weekly digest: %d lessons", result.LessonsThisWeek))
	return result, nil
}

func (s *Service) lookupLesson(ctx context.Context, lessonID string) (*content.ContentFile, error) {
	lesson, err := s.catalog.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, content.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("finding lesson: %w", err)
	}
	return lesson, nil
}

func (s *Service) recomputeStats(ctx context.Context, now time.Time) (*Stats, error) {
	rows, err := s.progress.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}

	var completions []time.Time
	var hours float64
	for _, row := range rows {
		if row.CompletedAt == nil {
			continue
		}
		completions = append(completions, *row.CompletedAt)
		hours += row.EstimatedHours
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	today := Day(now, s.loc)
	stats.TotalLessonsCompleted = len(completions)
	stats.TotalHoursStudied = hours
	stats.CurrentStreak = ComputeStreak(completions, now, s.loc, streakWindowDays)
	stats.LongestStreak = max(stats.LongestStreak, stats.CurrentStreak)
	stats.LastStudyDate = &today
	stats.UpdatedAt = now

	if err := s.stats.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("saving stats: %w", err)
	}
	return stats, nil
}

// announceCompletion sends the completion email and at most one milestone
// email. Failures are logged and never returned.
func (s *Service) announceCompletion(ctx context.Context, title string, stats *Stats) string {
	milestone, ok := MilestoneFor(stats.TotalLessonsCompleted, stats.CurrentStreak)
	if s.notifier == nil {
		if ok {
			return milestone.Title
		}
		return ""
	}

	if err := s.notifier.LessonCompleted(ctx, title, stats.CurrentStreak); err != nil {
		s.logger.Error("sending lesson completed email", "lesson", title, "error", err)
	}
	if !ok {
		return ""
	}
	if err := s.notifier.Achievement(ctx, milestone.Title, milestone.Message); err != nil {
		s.logger.Error("sending achievement email", "milestone", milestone.Title, "error", err)
	}
	return milestone.Title
}

func (s *Service) logActivity(ctx context.Context, lessonID string, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ID:           uuid.NewString(),
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now().UTC(),
	}
	if lessonID != "" {
		entry.LessonID = &lessonID
	}
	if err := s.activities.Log(ctx, entry); err != nil {
		s.logger.Warn("logging progress activity", "type", typ, "error", err)
	}
}
