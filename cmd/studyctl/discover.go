package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/spf13/cobra"
)

var discoverIDs bool

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the discovered phases and lessons",
	Long: `Walk the content directory and print every phase with its lessons in
curriculum order.

Examples:
  studyctl discover
  studyctl discover --root ./content --ids`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phases, err := newDiscoverer(cmd.ErrOrStderr()).Discover(context.Background())
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), phases, discoverIDs)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
	discoverCmd.Flags().BoolVar(&discoverIDs, "ids", false, "Show lesson ids")
}

func printTree(w io.Writer, phases []content.Phase, showIDs bool) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if len(phases) == 0 {
		fmt.Fprintln(w, "No lessons found")
		return
	}

	lessons := 0
	hours := 0.0
	for _, phase := range phases {
		fmt.Fprintf(w, "%s %s\n", cyan(fmt.Sprintf("Phase %d: %s", phase.Number, phase.Name)),
			gray(fmt.Sprintf("(weeks %d-%d)", phase.WeekStart, phase.WeekEnd)))
		for _, lesson := range phase.Lessons {
			line := fmt.Sprintf("  %2d. %s %s", lesson.OrderIndex, lesson.Title,
				yellow(fmt.Sprintf("[%s, %sh]", lesson.Difficulty, formatHours(lesson.EstimatedHours))))
			if showIDs {
				line += " " + gray(lesson.ID)
			}
			fmt.Fprintln(w, line)
			lessons++
			hours += lesson.EstimatedHours
		}
	}
	fmt.Fprintf(w, "\n%d phases, %d lessons, %sh estimated\n", len(phases), lessons, formatHours(hours))
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
