package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

const (
	serverName    = "studytrail"
	serverVersion = "0.1.0"
)

// ContentService defines lesson lookups needed by MCP.
type ContentService interface {
	FindLessonByID(ctx context.Context, id string) (*content.ContentFile, error)
	ReadLesson(ctx context.Context, lesson content.ContentFile) (*content.LessonBody, error)
	Search(ctx context.Context, query string) ([]content.ContentFile, error)
}

// ProgressService defines progress operations needed by MCP.
type ProgressService interface {
	Overview(ctx context.Context) ([]progress.PhaseProgress, error)
	Get(ctx context.Context, lessonID string) (*progress.Progress, error)
	Toggle(ctx context.Context, lessonID string) (*progress.ToggleResult, error)
	Stats(ctx context.Context) (*progress.Stats, error)
}

// NoteService defines note operations needed by MCP.
type NoteService interface {
	List(ctx context.Context, lessonID string) ([]notes.Note, error)
	Create(ctx context.Context, req notes.CreateRequest) (*notes.Note, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Content  ContentService
	Progress ProgressService
	Notes    NoteService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
