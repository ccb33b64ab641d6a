package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/report"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePhases() []progress.PhaseProgress {
	done := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	four := 4
	return []progress.PhaseProgress{
		{
			ID: "phase-1", Number: 1, Name: "Foundations", WeekStart: 1, WeekEnd: 4,
			Completed: 1, Total: 2,
			Lessons: []progress.LessonProgress{
				{
					ContentFile:     content.ContentFile{ID: "A", Title: "Arrays", Difficulty: "easy", EstimatedHours: 2.5, OrderIndex: 1, FilePath: "Phase 1 - Foundations/01-arrays/main.md"},
					Completed:       true,
					CompletedAt:     &done,
					ConfidenceLevel: &four,
				},
				{
					ContentFile: content.ContentFile{ID: "B", Title: "Hashing", Difficulty: "medium", EstimatedHours: 2, OrderIndex: 2, FilePath: "Phase 1 - Foundations/02-hashing/main.md"},
				},
			},
		},
	}
}

func readBack(t *testing.T, phases []progress.PhaseProgress, stats *progress.Stats) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, phases, stats))
	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrite_Sheets(t *testing.T) {
	last := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	f := readBack(t, samplePhases(), &progress.Stats{CurrentStreak: 3, LongestStreak: 7, TotalHoursStudied: 2.5, LastStudyDate: &last})

	require.Equal(t, []string{report.SheetSummary, report.SheetPhases, report.SheetLessons}, f.GetSheetList())

	summary, err := f.GetRows(report.SheetSummary)
	require.NoError(t, err)
	require.Equal(t, []string{"Lessons completed", "1"}, summary[0])
	require.Equal(t, []string{"Lessons total", "2"}, summary[1])
	require.Equal(t, []string{"Hours completed", "2.5"}, summary[2])
	require.Equal(t, []string{"Current streak", "3"}, summary[3])
	require.Equal(t, []string{"Last study date", "2026-03-09"}, summary[6])

	phases, err := f.GetRows(report.SheetPhases)
	require.NoError(t, err)
	require.Len(t, phases, 2)
	require.Equal(t, []string{"1", "Foundations", "1-4", "1", "2", "50"}, phases[1])

	lessons, err := f.GetRows(report.SheetLessons)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	require.Equal(t, "Title", lessons[0][2])
	require.Equal(t, []string{"1", "1", "Arrays", "easy", "2.5", "yes", "2026-03-09", "4", "A", "Phase 1 - Foundations/01-arrays/main.md"}, lessons[1])
	require.Equal(t, "no", lessons[2][5])
}

func TestWrite_NoStats(t *testing.T) {
	f := readBack(t, nil, nil)
	summary, err := f.GetRows(report.SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	require.Equal(t, []string{"Lessons total", "0"}, summary[1])
}

func TestFromPhases(t *testing.T) {
	phases := []content.Phase{{
		ID: "phase-2", Number: 2, Name: "Graphs", Total: 1,
		Lessons: []content.ContentFile{{ID: "X", Title: "BFS"}},
	}}
	out := report.FromPhases(phases)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].Total)
	require.Equal(t, 0, out[0].Completed)
	require.Equal(t, "BFS", out[0].Lessons[0].Title)
	require.False(t, out[0].Lessons[0].Completed)
}
