package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rpggio/studytrail/internal/config"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/spf13/cobra"
)

var (
	contentRoot string
	cfg         config.Config
)

var rootCmd = &cobra.Command{
	Use:   "studyctl",
	Short: "Inspect study content and progress from the command line",
	Long: `studyctl reads the same configuration as the server (STUDYTRAIL_* variables,
an optional .env file and STUDYTRAIL_CONFIG_PATH) and works directly against
the content tree and the progress database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if contentRoot == "" {
			contentRoot = cfg.Content.Root
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentRoot, "root", "", "Content directory (defaults to the configured root)")
}

// newDiscoverer reports files it skips to w.
func newDiscoverer(w io.Writer) *content.Discoverer {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return content.NewDirDiscoverer(contentRoot,
		content.WithWeekTable(cfg.Content.WeekTable()),
		content.WithLogger(logger),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
