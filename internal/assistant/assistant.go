package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/studytrail/internal/platform/gemini"
)

var (
	// ErrInvalidInput indicates a request missing required fields.
	ErrInvalidInput = errors.New("invalid assistant input")
	// ErrUnavailable indicates no generator is configured.
	ErrUnavailable = errors.New("assistant unavailable")
)

// Request types.
const (
	TypeChat     = "chat"
	TypeHint     = "hint"
	TypeFeedback = "feedback"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, model gemini.Model, prompt string) (string, error)
}

// Message is one turn of a chat transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserStats is the progress summary used for feedback prompts.
type UserStats struct {
	TotalLessonsCompleted int     `json:"total_lessons_completed"`
	CurrentStreak         int     `json:"current_streak"`
	TotalHoursStudied     float64 `json:"total_hours_studied"`
}

// Context carries type-specific request fields.
type Context struct {
	Problem      string     `json:"problem,omitempty"`
	UserAttempt  string     `json:"userAttempt,omitempty"`
	UserStats    *UserStats `json:"userStats,omitempty"`
	CurrentTopic string     `json:"currentTopic,omitempty"`
}

// Request is an assistant call.
type Request struct {
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
	Context  *Context  `json:"context,omitempty"`
}

// Response is the generated reply.
type Response struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Service builds prompts and routes them to a model.
type Service struct {
	gen    Generator
	fast   gemini.Model
	pro    gemini.Model
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an assistant. A nil generator makes every call fail
// with ErrUnavailable.
func NewService(gen Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:    gen,
		fast:   gemini.FastModel(),
		pro:    gemini.ProModel(),
		logger: logger,
		now:    time.Now,
	}
}

// Respond dispatches on the request type. Unknown types are treated as chat.
func (s *Service) Respond(ctx context.Context, req Request) (*Response, error) {
	if req.Messages == nil {
		return nil, fmt.Errorf("%w: messages array is required", ErrInvalidInput)
	}

	var (
		text string
		err  error
	)
	switch req.Type {
	case TypeHint:
		if req.Context == nil || strings.TrimSpace(req.Context.Problem) == "" {
			return nil, fmt.Errorf("%w: problem context required for hints", ErrInvalidInput)
		}
		text, err = s.Hint(ctx, req.Context.Problem, req.Context.UserAttempt)
	case TypeFeedback:
		if req.Context == nil || req.Context.UserStats == nil || strings.TrimSpace(req.Context.CurrentTopic) == "" {
			return nil, fmt.Errorf("%w: user stats and current topic required for feedback", ErrInvalidInput)
		}
		text, err = s.Feedback(ctx, *req.Context.UserStats, req.Context.CurrentTopic)
	default:
		text, err = s.Chat(ctx, req.Messages)
	}
	if err != nil {
		return nil, err
	}
	return &Response{Message: text, Timestamp: s.now().UnixMilli()}, nil
}

// Chat continues a conversation.
func (s *Service) Chat(ctx context.Context, messages []Message) (string, error) {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	prompt := fmt.Sprintf("%s\n\nConversation:\n%s\n\nAssistant:", promptChat, strings.Join(lines, "\n"))
	return s.generate(ctx, s.fast, prompt)
}

// Hint nudges toward a solution without giving it away.
func (s *Service) Hint(ctx context.Context, problem, attempt string) (string, error) {
	if attempt == "" {
		attempt = "None yet"
	}
	prompt := fmt.Sprintf("%s\n\nProblem: %s\n\nUser's attempt: %s", promptProblemHint, problem, attempt)
	return s.generate(ctx, s.fast, prompt)
}

// Feedback coaches based on current progress.
func (s *Service) Feedback(ctx context.Context, stats UserStats, topic string) (string, error) {
	details := fmt.Sprintf("Current topic: %s\nProgress: %d lessons completed\nStreak: %d days\nHours studied: %g",
		topic, stats.TotalLessonsCompleted, stats.CurrentStreak, stats.TotalHoursStudied)
	return s.generate(ctx, s.pro, promptInterviewCoach+"\n\n"+details)
}

// ExplainConcept explains an algorithm or topic.
func (s *Service) ExplainConcept(ctx context.Context, concept string) (string, error) {
	if strings.TrimSpace(concept) == "" {
		return "", fmt.Errorf("%w: concept is required", ErrInvalidInput)
	}
	return s.generate(ctx, s.pro, promptExplanation+"\n\n"+concept)
}

// ReviewCode reviews a code snippet.
func (s *Service) ReviewCode(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: code is required", ErrInvalidInput)
	}
	return s.generate(ctx, s.fast, promptCodeReview+"\n\n"+code)
}

// Motivate writes an encouragement message from the given stats.
func (s *Service) Motivate(ctx context.Context, stats UserStats) (string, error) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("encoding stats: %w", err)
	}
	return s.generate(ctx, s.fast, promptMotivation+"\n\n"+string(raw))
}

func (s *Service) generate(ctx context.Context, model gemini.Model, prompt string) (string, error) {
	if s.gen == nil {
		return "", ErrUnavailable
	}
	text, err := s.gen.Generate(ctx, model, prompt)
	if err != nil {
		s.logger.Error("generating content", "model", model.Name, "error", err)
		return "", fmt.Errorf("generating content: %w", err)
	}
	return text, nil
}
