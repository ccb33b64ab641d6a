package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/studytrail/internal/assistant"
	"github.com/rpggio/studytrail/internal/config"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
	"github.com/rpggio/studytrail/internal/mcp"
	"github.com/rpggio/studytrail/internal/notify"
	"github.com/rpggio/studytrail/internal/platform/brevo"
	"github.com/rpggio/studytrail/internal/platform/gemini"
	"github.com/rpggio/studytrail/internal/scheduler"
	"github.com/rpggio/studytrail/internal/store"
	"github.com/rpggio/studytrail/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if cfg.DB.Driver == store.DriverSQLite {
		if err := ensureDBDir(cfg.DB.DSN); err != nil {
			logger.Error("failed to prepare database path", "error", err)
			os.Exit(1)
		}
	}

	db, err := store.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(context.Background()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		logger.Error("invalid scheduler timezone", "timezone", cfg.Scheduler.Timezone, "error", err)
		os.Exit(1)
	}

	noteRepo := store.NewNoteRepository(db)
	progressRepo := store.NewProgressRepository(db)
	statsRepo := store.NewStatsRepository(db)
	activityRepo := store.NewActivityRepository(db)

	discoverer := content.NewDirDiscoverer(cfg.Content.Root,
		content.WithWeekTable(cfg.Content.WeekTable()),
		content.WithLogger(logger),
	)

	progressOpts := []progress.Option{
		progress.WithLocation(loc),
		progress.WithActivities(activityRepo),
		progress.WithLogger(logger),
	}
	if notifier := newNotifier(cfg.Mail, logger); notifier != nil {
		progressOpts = append(progressOpts, progress.WithNotifier(notifier))
	}

	progressSvc := progress.NewService(progressRepo, statsRepo, discoverer, progressOpts...)
	notesSvc := notes.NewService(noteRepo, activityRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	assistantSvc := assistant.NewService(newGenerator(cfg.AI, logger), logger)

	jobs, err := scheduler.New(progressSvc, scheduler.Config{
		Enabled:          cfg.Scheduler.Enabled,
		Timezone:         cfg.Scheduler.Timezone,
		StreakReminderAt: cfg.Scheduler.StreakReminderAt,
		WeeklyDigestDay:  cfg.Scheduler.WeeklyDigestDay,
		WeeklyDigestAt:   cfg.Scheduler.WeeklyDigestAt,
	}, logger)
	if err != nil {
		logger.Error("failed to configure scheduler", "error", err)
		os.Exit(1)
	}
	if err := jobs.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer jobs.Stop()

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Content:  discoverer,
			Progress: progressSvc,
			Notes:    notesSvc,
			Activity: activitySvc,
		},
		Logger: logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	var mcpHandler http.Handler
	if cfg.Transport.MCPEnabled {
		mcpHandler = mcp.NewHTTPHandler(mcpServer)
	}
	router := transport.NewServer(transport.Services{
		Content:   discoverer,
		Progress:  progressSvc,
		Notes:     notesSvc,
		Activity:  activitySvc,
		Assistant: assistantSvc,
		Jobs:      jobs,
	}, transport.Options{
		CronSecret: cfg.Cron.Secret,
		MCP:        mcpHandler,
		Logger:     logger,
	})
	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

// newNotifier returns nil when mail is not configured.
func newNotifier(cfg config.MailConfig, logger *slog.Logger) *notify.Notifier {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.Recipient) == "" {
		logger.Info("email notifications disabled")
		return nil
	}
	mailer, err := brevo.New(brevo.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	}, logger)
	if err != nil {
		logger.Warn("email notifications disabled", "error", err)
		return nil
	}
	notifier, err := notify.New(mailer, notify.Config{
		Recipient:     cfg.Recipient,
		RecipientName: cfg.RecipientName,
		AppURL:        cfg.AppURL,
	}, logger)
	if err != nil {
		logger.Warn("email notifications disabled", "error", err)
		return nil
	}
	return notifier
}

// newGenerator returns a nil interface when no API key is set, which makes
// the assistant report itself unavailable.
func newGenerator(cfg config.AIConfig, logger *slog.Logger) assistant.Generator {
	client, err := gemini.New(gemini.Config{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL}, logger)
	if err != nil {
		logger.Info("study assistant disabled", "reason", err)
		return nil
	}
	return client
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	path = strings.TrimPrefix(path, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
