package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/go-co-op/gocron"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

// Job names accepted by RunNow.
const (
	JobStreakReminder = "streak-reminder"
	JobWeeklyProgress = "weekly-progress"
)

// ErrUnknownJob is returned by RunNow for an unregistered name.
var ErrUnknownJob = errors.New("unknown job")

// Runner performs the scheduled work.
type Runner interface {
	StreakReminder(ctx context.Context, now time.Time) (*progress.ReminderResult, error)
	WeeklyDigest(ctx context.Context, now time.Time) (*progress.DigestResult, error)
}

// Config selects when jobs fire.
type Config struct {
	Enabled          bool
	Timezone         string
	StreakReminderAt string
	WeeklyDigestDay  string
	WeeklyDigestAt   string
	JobTimeout       time.Duration
}

type jobFunc func(ctx context.Context) (any, error)

// Scheduler runs the notification jobs on a cron-style schedule.
type Scheduler struct {
	cfg       Config
	loc       *time.Location
	weekday   time.Weekday
	scheduler *gocron.Scheduler
	jobs      map[string]jobFunc
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// New builds a scheduler. Jobs are not registered until Start.
func New(runner Runner, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("scheduler: runner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.StreakReminderAt == "" {
		cfg.StreakReminderAt = "18:00"
	}
	if cfg.WeeklyDigestDay == "" {
		cfg.WeeklyDigestDay = "sunday"
	}
	if cfg.WeeklyDigestAt == "" {
		cfg.WeeklyDigestAt = "09:00"
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 2 * time.Minute
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	weekday, err := ParseWeekday(cfg.WeeklyDigestDay)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		cfg:       cfg,
		loc:       loc,
		weekday:   weekday,
		scheduler: gocron.NewScheduler(loc),
		logger:    logger,
	}
	s.jobs = map[string]jobFunc{
		JobStreakReminder: func(ctx context.Context) (any, error) {
			return runner.StreakReminder(ctx, time.Now().In(loc))
		},
		JobWeeklyProgress: func(ctx context.Context) (any, error) {
			return runner.WeeklyDigest(ctx, time.Now().In(loc))
		},
	}
	return s, nil
}

// Start registers the jobs and runs them in the background. It is a no-op
// when the scheduler is disabled.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	if _, err := s.scheduler.Every(1).Day().At(s.cfg.StreakReminderAt).Tag(JobStreakReminder).Do(s.fire, JobStreakReminder); err != nil {
		return fmt.Errorf("scheduling %s: %w", JobStreakReminder, err)
	}
	if _, err := s.scheduler.Every(1).Week().Weekday(s.weekday).At(s.cfg.WeeklyDigestAt).Tag(JobWeeklyProgress).Do(s.fire, JobWeeklyProgress); err != nil {
		return fmt.Errorf("scheduling %s: %w", JobWeeklyProgress, err)
	}

	s.scheduler.StartAsync()
	s.running = true
	s.logger.Info("scheduler started",
		"timezone", s.loc.String(),
		"streak_reminder_at", s.cfg.StreakReminderAt,
		"weekly_digest", fmt.Sprintf("%s %s", s.weekday, s.cfg.WeeklyDigestAt),
	)
	return nil
}

// Stop halts the background scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
}

// Names lists the registered job names.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunNow executes a job synchronously and returns its result.
func (s *Scheduler) RunNow(ctx context.Context, name string) (any, error) {
	job, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	result, err := job(ctx)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return result, nil
}

func (s *Scheduler) fire(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.RunNow(ctx, name)
	if err != nil {
		s.logger.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	s.logger.Info("scheduled job finished", "job", name, "duration", time.Since(start), "result", result)
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(day string) (time.Weekday, error) {
	d := strings.ToLower(strings.TrimSpace(day))
	for w := time.Sunday; w <= time.Saturday; w++ {
		full := strings.ToLower(w.String())
		if d == full || d == full[:3] {
			return w, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", day)
}
