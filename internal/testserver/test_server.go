// Package testserver assembles the full application stack over an in-memory
// database for integration tests.
package testserver

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rpggio/studytrail/internal/assistant"
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
	"github.com/stretchr/testify/require"
)

// Recipient is the address every test email is sent to.
const Recipient = "student@example.com"

// Lesson paths in DefaultContent.
const (
	ArraysPath   = "Phase 1 - Foundations/01-arrays/main.md"
	PracticePath = "Phase 1 - Foundations/01-arrays/practice-problems.md"
	HashingPath  = "Phase 1 - Foundations/02-hashing/main.md"
	BFSPath      = "Phase 2 - Graphs/01-bfs/main.md"
)

// DefaultContent is a small curriculum of four lessons in two phases.
func DefaultContent() fstest.MapFS {
	return fstest.MapFS{
		ArraysPath: {Data: []byte("---\ntitle: Arrays and Strings\ndescription: Contiguous memory\nestimated_hours: 3\ndifficulty: easy\n---\n" +
			"# Arrays\n\nA binary search tree is not an array, but binary search works on sorted arrays.\n")},
		PracticePath: {Data: []byte("# Practice\n\nTwo sum, three sum.\n")},
		HashingPath:  {Data: []byte("# Hashing\n\nHash maps trade memory for speed.\n")},
		BFSPath:      {Data: []byte("---\ntitle: Breadth-First Search\n---\n# BFS\n\nUse a queue.\n")},
		"README.md":  {Data: []byte("not a lesson")},
	}
}

// Mailer records outgoing email instead of sending it.
type Mailer struct {
	mu   sync.Mutex
	sent []brevo.SendEmailRequest
	Err  error
}

func (m *Mailer) Send(_ context.Context, req brevo.SendEmailRequest) (*brevo.SendEmailResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.sent = append(m.sent, req)
	return &brevo.SendEmailResult{StatusCode: 201, MessageID: "<test@brevo>"}, nil
}

// Subjects returns the subjects of every email sent so far.
func (m *Mailer) Subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, req := range m.sent {
		out = append(out, req.Subject)
	}
	return out
}

// Generator answers every prompt with Reply and records the prompts.
type Generator struct {
	mu      sync.Mutex
	Reply   string
	prompts []string
}

func (g *Generator) Generate(_ context.Context, _ gemini.Model, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.Reply, nil
}

// Prompts returns the prompts received so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

// Stack is the wired set of services.
type Stack struct {
	DB        *store.DB
	Content   *content.Discoverer
	Progress  *progress.Service
	Notes     *notes.Service
	Activity  *activity.Service
	Assistant *assistant.Service
	Scheduler *scheduler.Scheduler
	Mailer    *Mailer
	Generator *Generator
	Logger    *slog.Logger
}

// NewStack wires every service over fsys and a fresh in-memory database.
func NewStack(t *testing.T, fsys fs.FS) *Stack {
	t.Helper()

	db, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	noteRepo := store.NewNoteRepository(db)
	progressRepo := store.NewProgressRepository(db)
	statsRepo := store.NewStatsRepository(db)
	activityRepo := store.NewActivityRepository(db)

	mailer := &Mailer{}
	notifier, err := notify.New(mailer, notify.Config{Recipient: Recipient}, logger)
	require.NoError(t, err)

	discoverer := content.New(fsys, content.WithLogger(logger))
	progressSvc := progress.NewService(progressRepo, statsRepo, discoverer,
		progress.WithNotifier(notifier),
		progress.WithActivities(activityRepo),
		progress.WithLogger(logger),
	)
	generator := &Generator{Reply: "Keep going!"}

	jobs, err := scheduler.New(progressSvc, scheduler.Config{}, logger)
	require.NoError(t, err)

	return &Stack{
		DB:        db,
		Content:   discoverer,
		Progress:  progressSvc,
		Notes:     notes.NewService(noteRepo, activityRepo, logger),
		Activity:  activity.NewService(activityRepo, logger),
		Assistant: assistant.NewService(generator, logger),
		Scheduler: jobs,
		Mailer:    mailer,
		Generator: generator,
		Logger:    logger,
	}
}

// MCPServices adapts the stack for the MCP server.
func (s *Stack) MCPServices() mcp.Services {
	return mcp.Services{
		Content:  s.Content,
		Progress: s.Progress,
		Notes:    s.Notes,
		Activity: s.Activity,
	}
}

// TestServer is the HTTP API served by httptest.
type TestServer struct {
	*Stack
	Server     *httptest.Server
	CronSecret string
}

// New starts the HTTP API over DefaultContent. The MCP endpoint is mounted
// at /mcp.
func New(t *testing.T, cronSecret string) *TestServer {
	t.Helper()
	return NewWithContent(t, DefaultContent(), cronSecret)
}

// NewWithContent starts the HTTP API over fsys.
func NewWithContent(t *testing.T, fsys fs.FS, cronSecret string) *TestServer {
	t.Helper()

	stack := NewStack(t, fsys)
	mcpServer := mcp.NewServer(mcp.Config{Services: stack.MCPServices(), Logger: stack.Logger})

	router := transport.NewServer(transport.Services{
		Content:   stack.Content,
		Progress:  stack.Progress,
		Notes:     stack.Notes,
		Activity:  stack.Activity,
		Assistant: stack.Assistant,
		Jobs:      stack.Scheduler,
	}, transport.Options{
		CronSecret: cronSecret,
		MCP:        mcp.NewHTTPHandler(mcpServer),
		Logger:     stack.Logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Stack: stack, Server: server, CronSecret: cronSecret}
}
