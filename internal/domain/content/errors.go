package content

import "errors"

var (
	// ErrLessonNotFound indicates no discovered lesson has the requested id.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrContentUnavailable indicates the content root exists but cannot be read.
	ErrContentUnavailable = errors.New("content root unavailable")
	// ErrInvalidPath indicates a relative path that is malformed or escapes the content root.
	ErrInvalidPath = errors.New("invalid content path")
	// ErrFileNotFound indicates a content file does not exist.
	ErrFileNotFound = errors.New("content file not found")
	// ErrInvalidLessonID indicates a string that is not a lesson id encoding.
	ErrInvalidLessonID = errors.New("invalid lesson id")
	// ErrUnterminatedFrontMatter indicates an opening front-matter fence without a closing one.
	ErrUnterminatedFrontMatter = errors.New("unterminated front-matter")
)
