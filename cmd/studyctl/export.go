package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/report"
	"github.com/rpggio/studytrail/internal/store"
	"github.com/spf13/cobra"
)

var exportContentOnly bool

var exportCmd = &cobra.Command{
	Use:   "export <out.xlsx>",
	Short: "Write a progress workbook",
	Long: `Write an Excel workbook with a summary sheet, one row per phase and one row
per lesson. Completion state comes from the configured database unless
--content-only is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		discoverer := newDiscoverer(cmd.ErrOrStderr())

		var (
			phases []progress.PhaseProgress
			stats  *progress.Stats
			err    error
		)
		if exportContentOnly {
			phases, err = contentPhases(ctx, discoverer)
		} else {
			phases, stats, err = trackedPhases(ctx, discoverer)
		}
		if err != nil {
			return err
		}

		if err := writeWorkbook(args[0], phases, stats); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", green("✓"), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVar(&exportContentOnly, "content-only", false, "Skip the database and export the content tree only")
}

func writeWorkbook(path string, phases []progress.PhaseProgress, stats *progress.Stats) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.Write(out, phases, stats); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func contentPhases(ctx context.Context, discoverer *content.Discoverer) ([]progress.PhaseProgress, error) {
	phases, err := discoverer.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return report.FromPhases(phases), nil
}

func trackedPhases(ctx context.Context, discoverer *content.Discoverer) ([]progress.PhaseProgress, *progress.Stats, error) {
	db, err := store.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()
	if err := db.RunMigrations(ctx); err != nil {
		return nil, nil, err
	}

	svc := progress.NewService(store.NewProgressRepository(db), store.NewStatsRepository(db), discoverer,
		progress.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	phases, err := svc.Overview(ctx)
	if err != nil {
		return nil, nil, err
	}
	stats, err := svc.Stats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return phases, stats, nil
}
