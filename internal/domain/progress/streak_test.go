package progress_test

import (
	"testing"
	"time"

	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/stretchr/testify/require"
)

func TestComputeStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 10+offset, hour, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name        string
		completions []time.Time
		want        int
	}{
		{"none", nil, 0},
		{"today only", []time.Time{day(0, 9)}, 1},
		{"gap breaks streak", []time.Time{day(0, 9), day(-1, 20), day(-3, 8)}, 2},
		{"duplicates on one day", []time.Time{day(0, 9), day(0, 11), day(-1, 7)}, 2},
		{"nothing today", []time.Time{day(-1, 9), day(-2, 9)}, 0},
		{"unordered input", []time.Time{day(-2, 1), day(0, 1), day(-1, 1)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, progress.ComputeStreak(tt.completions, today, time.UTC, 30))
		})
	}
}

func TestComputeStreak_Window(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var completions []time.Time
	for i := 0; i < 40; i++ {
		completions = append(completions, today.AddDate(0, 0, -i))
	}

	require.Equal(t, 30, progress.ComputeStreak(completions, today, time.UTC, 30))
	require.Equal(t, 40, progress.ComputeStreak(completions, today, time.UTC, 0))
}

func TestComputeStreak_Location(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on the 10th is still the 9th at UTC-5.
	today := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)
	completions := []time.Time{time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)}

	require.Equal(t, 1, progress.ComputeStreak(completions, today, loc, 30))
	require.Equal(t, 0, progress.ComputeStreak(completions, today, time.UTC, 30))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	require.Equal(t, 2, progress.DaysBetween(a, b, time.UTC))
	require.Equal(t, 0, progress.DaysBetween(b, b, time.UTC))
}

func TestMilestoneFor(t *testing.T) {
	m, ok := progress.MilestoneFor(10, 7)
	require.True(t, ok)
	require.Equal(t, "First 10 Lessons Complete!", m.Title)

	m, ok = progress.MilestoneFor(3, 7)
	require.True(t, ok)
	require.Equal(t, "Week-Long Streak Master!", m.Title)

	m, ok = progress.MilestoneFor(40, 30)
	require.True(t, ok)
	require.Equal(t, "Monthly Consistency Champion!", m.Title)

	_, ok = progress.MilestoneFor(11, 8)
	require.False(t, ok)
}
