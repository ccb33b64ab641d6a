package progress

import (
	"sort"
	"time"
)

// Day truncates t to midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from a to b in loc.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	da, db := Day(a, loc), Day(b, loc)
	// Round to absorb DST shifts.
	return int((db.Sub(da) + 12*time.Hour) / (24 * time.Hour))
}

// ComputeStreak counts consecutive calendar days ending today that have at
// least one completion. Only the most recent window distinct days are considered.
func ComputeStreak(completions []time.Time, today time.Time, loc *time.Location, window int) int {
	seen := map[string]bool{}
	var days []time.Time
	for _, c := range completions {
		d := Day(c, loc)
		key := d.Format(time.DateOnly)
		if !seen[key] {
			seen[key] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	if window > 0 && len(days) > window {
		days = days[:window]
	}

	streak := 0
	check := Day(today, loc)
	for _, d := range days {
		if !d.Equal(check) {
			break
		}
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}
