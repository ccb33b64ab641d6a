package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/studytrail/internal/domain/notes"
)

var _ notes.Repository = (*NoteRepository)(nil)

// NoteRepository implements notes.Repository
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type noteRow struct {
	ID           string         `db:"id"`
	LessonID     string         `db:"lesson_id"`
	SelectedText string         `db:"selected_text"`
	NoteContent  string         `db:"note_content"`
	PositionData sql.NullString `db:"position_data"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (r noteRow) toNote() notes.Note {
	n := notes.Note{
		ID:           r.ID,
		LessonID:     r.LessonID,
		SelectedText: r.SelectedText,
		NoteContent:  r.NoteContent,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.PositionData.Valid && r.PositionData.String != "" {
		n.PositionData = json.RawMessage(r.PositionData.String)
	}
	return n
}

func positionData(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

const noteColumns = `id, lesson_id, selected_text, note_content, position_data, created_at, updated_at`

// Create inserts a new note
func (r *NoteRepository) Create(ctx context.Context, note *notes.Note) error {
	query := r.db.Rebind(`
		INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.LessonID,
		note.SelectedText,
		note.NoteContent,
		positionData(note.PositionData),
		note.CreatedAt.UTC(),
		note.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// Get returns a note by id
func (r *NoteRepository) Get(ctx context.Context, id string) (*notes.Note, error) {
	var row noteRow
	query := r.db.Rebind(`SELECT ` + noteColumns + ` FROM notes WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, mapNotFound(err)
	}
	n := row.toNote()
	return &n, nil
}

// Update replaces the content of a note
func (r *NoteRepository) Update(ctx context.Context, note *notes.Note) error {
	query := r.db.Rebind(`UPDATE notes SET note_content = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, note.NoteContent, note.UpdatedAt.UTC(), note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a note
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM notes WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return requireAffected(res)
}

// ListByLesson returns a lesson's notes, newest first
func (r *NoteRepository) ListByLesson(ctx context.Context, lessonID string) ([]notes.Note, error) {
	var rows []noteRow
	query := r.db.Rebind(`
		SELECT ` + noteColumns + `
		FROM notes
		WHERE lesson_id = ?
		ORDER BY created_at DESC, id
	`)
	if err := r.db.SelectContext(ctx, &rows, query, lessonID); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	out := make([]notes.Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toNote())
	}
	return out, nil
}
