package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/repository"
)

// Service handles note business logic.
type Service struct {
	notes      Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new note service.
func NewService(notes Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notes:      notes,
		activities: activities,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest describes a note creation request.
type CreateRequest struct {
	LessonID     string
	SelectedText string
	NoteContent  string
	PositionData json.RawMessage
}

// List returns the notes of a lesson, newest first.
func (s *Service) List(ctx context.Context, lessonID string) ([]Note, error) {
	if strings.TrimSpace(lessonID) == "" {
		return nil, fmt.Errorf("%w: lesson id is required", ErrInvalidInput)
	}
	notes, err := s.notes.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Get returns a note by id.
func (s *Service) Get(ctx context.Context, id string) (*Note, error) {
	note, err := s.notes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return note, nil
}

// Create stores a new note.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Note, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := s.now()
	note := &Note{
		ID:           uuid.NewString(),
		LessonID:     req.LessonID,
		SelectedText: req.SelectedText,
		NoteContent:  req.NoteContent,
		PositionData: req.PositionData,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logActivity(ctx, note, activity.TypeNoteCreated, "Note added")
	return note, nil
}

// Update replaces the content of an existing note.
func (s *Service) Update(ctx context.Context, id, content string) (*Note, error) {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note id and content are required", ErrInvalidInput)
	}

	note, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	note.NoteContent = content
	note.UpdatedAt = s.now()

	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("updating note: %w", err)
	}

	s.logActivity(ctx, note, activity.TypeNoteUpdated, "Note updated")
	return note, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: note id is required", ErrInvalidInput)
	}

	note, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("deleting note: %w", err)
	}

	s.logActivity(ctx, note, activity.TypeNoteDeleted, "Note deleted")
	return nil
}

// AnchorsForLesson lists a lesson's notes and places them in text.
func (s *Service) AnchorsForLesson(ctx context.Context, lessonID, text string) ([]Note, []Anchor, error) {
	notes, err := s.List(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	return notes, AnchorNotes(text, notes), nil
}

func (s *Service) logActivity(ctx context.Context, note *Note, typ activity.ActivityType, summary string) {
	if s.activities == nil {
		return
	}
	lessonID := note.LessonID
	noteID := note.ID
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		ID:           uuid.NewString(),
		LessonID:     &lessonID,
		NoteID:       &noteID,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("logging note activity", "note_id", noteID, "error", err)
	}
}
