package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/scheduler"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type runner struct {
	mock.Mock
}

func (r *runner) StreakReminder(ctx context.Context, now time.Time) (*progress.ReminderResult, error) {
	args := r.Called(ctx, now)
	if v := args.Get(0); v != nil {
		return v.(*progress.ReminderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (r *runner) WeeklyDigest(ctx context.Context, now time.Time) (*progress.DigestResult, error) {
	args := r.Called(ctx, now)
	if v := args.Get(0); v != nil {
		return v.(*progress.DigestResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestNew_Validation(t *testing.T) {
	_, err := scheduler.New(nil, scheduler.Config{}, nil)
	require.Error(t, err)

	_, err = scheduler.New(&runner{}, scheduler.Config{Timezone: "Mars/Olympus"}, nil)
	require.Error(t, err)

	_, err = scheduler.New(&runner{}, scheduler.Config{WeeklyDigestDay: "someday"}, nil)
	require.Error(t, err)

	s, err := scheduler.New(&runner{}, scheduler.Config{Timezone: "America/New_York"}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{scheduler.JobStreakReminder, scheduler.JobWeeklyProgress}, s.Names())
}

func TestRunNow(t *testing.T) {
	ctx := context.Background()
	r := &runner{}
	r.On("StreakReminder", ctx, mock.AnythingOfType("time.Time")).
		Return(&progress.ReminderResult{Sent: true, CurrentStreak: 3, DaysSince: 1}, nil)
	r.On("WeeklyDigest", ctx, mock.AnythingOfType("time.Time")).
		Return(nil, errors.New("db down"))

	s, err := scheduler.New(r, scheduler.Config{}, nil)
	require.NoError(t, err)

	out, err := s.RunNow(ctx, scheduler.JobStreakReminder)
	require.NoError(t, err)
	require.Equal(t, &progress.ReminderResult{Sent: true, CurrentStreak: 3, DaysSince: 1}, out)

	_, err = s.RunNow(ctx, scheduler.JobWeeklyProgress)
	require.ErrorContains(t, err, "db down")

	_, err = s.RunNow(ctx, "nope")
	require.ErrorIs(t, err, scheduler.ErrUnknownJob)
	r.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s, err := scheduler.New(&runner{}, scheduler.Config{Enabled: false}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	s.Stop()

	s, err = scheduler.New(&runner{}, scheduler.Config{Enabled: true, StreakReminderAt: "23:59", WeeklyDigestDay: "sat"}, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"sunday":    time.Sunday,
		"Mon":       time.Monday,
		" FRIDAY ":  time.Friday,
		"wednesday": time.Wednesday,
	}
	for in, want := range cases {
		got, err := scheduler.ParseWeekday(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := scheduler.ParseWeekday("")
	require.Error(t, err)
}
