package notes_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/repository"
	"github.com/rpggio/studytrail/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	activitiesRepo := &mocks.ActivityRepository{}

	notesRepo.On("Create", ctx, mock.MatchedBy(func(n *notes.Note) bool {
		return n.ID != "" && n.LessonID == "lesson1" && n.SelectedText == "heap"
	})).Return(nil)
	activitiesRepo.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeNoteCreated && *e.LessonID == "lesson1"
	})).Return(nil)

	svc := notes.NewService(notesRepo, activitiesRepo, nil)
	note, err := svc.Create(ctx, notes.CreateRequest{
		LessonID:     "lesson1",
		SelectedText: "heap",
		NoteContent:  "min-heap by default",
		PositionData: json.RawMessage(`{"offset":12}`),
	})
	require.NoError(t, err)
	require.Equal(t, "min-heap by default", note.NoteContent)
	require.Equal(t, note.CreatedAt, note.UpdatedAt)
	notesRepo.AssertExpectations(t)
	activitiesRepo.AssertExpectations(t)
}

func TestNoteService_CreateValidation(t *testing.T) {
	svc := notes.NewService(&mocks.NoteRepository{}, nil, nil)

	cases := []notes.CreateRequest{
		{SelectedText: "x", NoteContent: "y"},
		{LessonID: "l", NoteContent: "y"},
		{LessonID: "l", SelectedText: "x"},
		{LessonID: "l", SelectedText: "x", NoteContent: "y", PositionData: json.RawMessage(`{bad`)},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, notes.ErrInvalidInput)
	}
}

func TestNoteService_ActivityFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	activitiesRepo := &mocks.ActivityRepository{}
	notesRepo.On("Create", ctx, mock.Anything).Return(nil)
	activitiesRepo.On("Log", ctx, mock.Anything).Return(repository.ErrInvalidInput)

	svc := notes.NewService(notesRepo, activitiesRepo, nil)
	_, err := svc.Create(ctx, notes.CreateRequest{LessonID: "l", SelectedText: "x", NoteContent: "y"})
	require.NoError(t, err)
}

func TestNoteService_Update(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	notesRepo.On("Get", ctx, "n1").Return(&notes.Note{ID: "n1", LessonID: "l", NoteContent: "old"}, nil)
	notesRepo.On("Update", ctx, mock.MatchedBy(func(n *notes.Note) bool {
		return n.ID == "n1" && n.NoteContent == "new"
	})).Return(nil)

	svc := notes.NewService(notesRepo, nil, nil)
	note, err := svc.Update(ctx, "n1", "new")
	require.NoError(t, err)
	require.Equal(t, "new", note.NoteContent)
	require.False(t, note.UpdatedAt.IsZero())
}

func TestNoteService_UpdateNotFound(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	notesRepo.On("Get", ctx, "missing").Return(nil, repository.ErrNotFound)

	svc := notes.NewService(notesRepo, nil, nil)
	_, err := svc.Update(ctx, "missing", "new")
	require.ErrorIs(t, err, notes.ErrNoteNotFound)

	_, err = svc.Update(ctx, "n1", " ")
	require.ErrorIs(t, err, notes.ErrInvalidInput)
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	notesRepo.On("Get", ctx, "n1").Return(&notes.Note{ID: "n1", LessonID: "l"}, nil)
	notesRepo.On("Delete", ctx, "n1").Return(nil)
	notesRepo.On("Get", ctx, "gone").Return(nil, repository.ErrNotFound)

	svc := notes.NewService(notesRepo, nil, nil)
	require.NoError(t, svc.Delete(ctx, "n1"))
	require.ErrorIs(t, svc.Delete(ctx, "gone"), notes.ErrNoteNotFound)
	require.ErrorIs(t, svc.Delete(ctx, ""), notes.ErrInvalidInput)
}

func TestNoteService_AnchorsForLesson(t *testing.T) {
	ctx := context.Background()

	notesRepo := &mocks.NoteRepository{}
	notesRepo.On("ListByLesson", ctx, "l").Return([]notes.Note{
		{ID: "n2", LessonID: "l", SelectedText: "queue"},
		{ID: "n1", LessonID: "l", SelectedText: "stack"},
	}, nil)

	svc := notes.NewService(notesRepo, nil, nil)
	list, anchors, err := svc.AnchorsForLesson(ctx, "l", "a stack and a queue")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, []notes.Anchor{
		{NoteID: "n1", Start: 2, End: 7},
		{NoteID: "n2", Start: 14, End: 19},
	}, anchors)

	_, err = svc.List(ctx, "")
	require.ErrorIs(t, err, notes.ErrInvalidInput)
}
