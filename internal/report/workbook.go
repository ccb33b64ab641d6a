// Package report exports study progress as a spreadsheet.
package report

import (
	"fmt"
	"io"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary = "Summary"
	SheetPhases  = "Phases"
	SheetLessons = "Lessons"

	dateLayout = "2006-01-02"
)

var (
	phaseHeader  = []any{"Phase", "Name", "Weeks", "Completed", "Total", "Percent"}
	lessonHeader = []any{"Phase", "Order", "Title", "Difficulty", "Hours", "Completed", "Completed At", "Confidence", "Lesson ID", "File"}
)

// FromPhases wraps discovered phases with empty completion state.
func FromPhases(phases []content.Phase) []progress.PhaseProgress {
	out := make([]progress.PhaseProgress, 0, len(phases))
	for _, p := range phases {
		pp := progress.PhaseProgress{
			ID:          p.ID,
			Number:      p.Number,
			Name:        p.Name,
			Description: p.Description,
			WeekStart:   p.WeekStart,
			WeekEnd:     p.WeekEnd,
			Total:       len(p.Lessons),
			Lessons:     make([]progress.LessonProgress, 0, len(p.Lessons)),
		}
		for _, l := range p.Lessons {
			pp.Lessons = append(pp.Lessons, progress.LessonProgress{ContentFile: l})
		}
		out = append(out, pp)
	}
	return out
}

// Build renders phases and stats into a workbook. Stats may be nil, in which
// case the summary sheet only carries lesson totals.
func Build(phases []progress.PhaseProgress, stats *progress.Stats) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetSummary)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := writeSummary(f, phases, stats, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePhases(f, phases, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeLessons(f, phases, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// Write builds the workbook and streams it to w.
func Write(w io.Writer, phases []progress.PhaseProgress, stats *progress.Stats) error {
	f, err := Build(phases, stats)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, phases []progress.PhaseProgress, stats *progress.Stats, style int) error {
	var completed, total int
	var hours float64
	for _, p := range phases {
		completed += p.Completed
		total += p.Total
		for _, l := range p.Lessons {
			if l.Completed {
				hours += l.EstimatedHours
			}
		}
	}

	rows := [][]any{
		{"Lessons completed", completed},
		{"Lessons total", total},
		{"Hours completed", hours},
	}
	if stats != nil {
		last := ""
		if stats.LastStudyDate != nil {
			last = stats.LastStudyDate.Format(dateLayout)
		}
		rows = append(rows,
			[]any{"Current streak", stats.CurrentStreak},
			[]any{"Longest streak", stats.LongestStreak},
			[]any{"Hours studied", stats.TotalHoursStudied},
			[]any{"Last study date", last},
		)
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(rows)), style); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	return f.SetColWidth(SheetSummary, "A", "A", 20)
}

func writePhases(f *excelize.File, phases []progress.PhaseProgress, style int) error {
	if _, err := f.NewSheet(SheetPhases); err != nil {
		return fmt.Errorf("creating phases sheet: %w", err)
	}
	if err := header(f, SheetPhases, phaseHeader, style); err != nil {
		return err
	}
	for i, p := range phases {
		percent := 0
		if p.Total > 0 {
			percent = p.Completed * 100 / p.Total
		}
		row := []any{p.Number, p.Name, fmt.Sprintf("%d-%d", p.WeekStart, p.WeekEnd), p.Completed, p.Total, percent}
		if err := setRow(f, SheetPhases, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetPhases, "B", "B", 32)
}

func writeLessons(f *excelize.File, phases []progress.PhaseProgress, style int) error {
	if _, err := f.NewSheet(SheetLessons); err != nil {
		return fmt.Errorf("creating lessons sheet: %w", err)
	}
	if err := header(f, SheetLessons, lessonHeader, style); err != nil {
		return err
	}
	n := 2
	for _, p := range phases {
		for _, l := range p.Lessons {
			done, at, confidence := "no", "", ""
			if l.Completed {
				done = "yes"
			}
			if l.CompletedAt != nil {
				at = l.CompletedAt.Format(dateLayout)
			}
			if l.ConfidenceLevel != nil {
				confidence = fmt.Sprint(*l.ConfidenceLevel)
			}
			row := []any{p.Number, l.OrderIndex, l.Title, l.Difficulty, l.EstimatedHours, done, at, confidence, l.ID, l.FilePath}
			if err := setRow(f, SheetLessons, n, row); err != nil {
				return err
			}
			n++
		}
	}
	return f.SetColWidth(SheetLessons, "C", "C", 40)
}

func header(f *excelize.File, sheet string, cols []any, style int) error {
	if err := setRow(f, sheet, 1, cols); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
