package transport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/studytrail/internal/assistant"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

// JobRunner triggers scheduled jobs on demand.
type JobRunner interface {
	RunNow(ctx context.Context, name string) (any, error)
}

// Services are the domain services exposed over HTTP.
type Services struct {
	Content   *content.Discoverer
	Progress  *progress.Service
	Notes     *notes.Service
	Activity  *activity.Service
	Assistant *assistant.Service
	Jobs      JobRunner
}

// Options configures optional parts of the router.
type Options struct {
	CronSecret string
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(svc Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/content", srv.handleContent)
		r.Get("/content/search", srv.handleSearch)
		r.Get("/lessons/{id}", srv.handleLesson)
		r.Get("/lessons/{id}/content", srv.handleLessonContent)
		r.Get("/files", srv.handleFiles)
		r.Get("/file", srv.handleFile)

		r.Post("/progress", srv.handleToggleProgress)
		r.Put("/progress/{id}/confidence", srv.handleSetConfidence)
		r.Get("/stats", srv.handleStats)

		r.Get("/notes", srv.handleListNotes)
		r.Post("/notes", srv.handleCreateNote)
		r.Put("/notes", srv.handleUpdateNote)
		r.Delete("/notes", srv.handleDeleteNote)

		r.Post("/ai/chat", srv.handleChat)
		r.Get("/activity", srv.handleActivity)
		r.Get("/export.xlsx", srv.handleExport)

		r.Group(func(r chi.Router) {
			r.Use(CronSecretMiddleware(opts.CronSecret))
			r.Get("/cron/streak-reminder", srv.handleStreakReminder)
			r.Get("/cron/weekly-progress", srv.handleWeeklyProgress)
		})
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// RequestLogger logs one line per request at debug, or warn for 5xx.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			level := slog.LevelDebug
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
