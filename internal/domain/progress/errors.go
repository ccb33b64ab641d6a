package progress

import "errors"

var (
	// ErrInvalidInput indicates invalid input for progress operations.
	ErrInvalidInput = errors.New("invalid progress input")
	// ErrLessonNotFound indicates the lesson is not part of the discovered content.
	ErrLessonNotFound = errors.New("lesson not found")
)
