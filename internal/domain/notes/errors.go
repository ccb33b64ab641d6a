package notes

import "errors"

var (
	// ErrNoteNotFound indicates the note doesn't exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrInvalidInput indicates missing or malformed note fields.
	ErrInvalidInput = errors.New("invalid note input")
)
