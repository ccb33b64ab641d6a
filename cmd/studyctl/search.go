package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find lessons by title, description or phase name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newDiscoverer(cmd.ErrOrStderr()).Search(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printResults(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func printResults(w io.Writer, results []content.ContentFile) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching lessons")
		return
	}
	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	for _, lesson := range results {
		fmt.Fprintf(w, "%s %s\n", green(lesson.Title), gray(lesson.PhaseName))
		fmt.Fprintf(w, "  %s\n  %s\n", lesson.FilePath, gray(lesson.ID))
	}
}
