package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// ReadLesson loads the markdown of a discovered lesson.
func (d *Discoverer) ReadLesson(ctx context.Context, lesson ContentFile) (*LessonBody, error) {
	return d.ReadFile(ctx, lesson.FilePath)
}

// ReadFile loads a markdown file by slash-separated path relative to the root.
// Paths that are absolute, contain "..", or name a non-markdown file are rejected.
func (d *Discoverer) ReadFile(ctx context.Context, rel string) (*LessonBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	if rel == "" || !fs.ValidPath(rel) || !isMarkdown(rel) {
		return nil, ErrInvalidPath
	}

	data, err := fs.ReadFile(d.fsys, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	_, header, body, err := ParseFrontMatter(data)
	if err != nil {
		// Serve the file as-is when its header cannot be parsed.
		return &LessonBody{Raw: string(data), Markdown: string(data)}, nil
	}
	return &LessonBody{
		Raw:         string(data),
		Markdown:    string(body),
		FrontMatter: header,
	}, nil
}

// ListFiles returns every directory and markdown file under the root,
// skipping dot-prefixed entries. A missing root yields an empty list.
func (d *Discoverer) ListFiles(ctx context.Context) ([]FileEntry, error) {
	entries := []FileEntry{}
	err := fs.WalkDir(d.fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == "." {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || isMarkdown(entry.Name()) {
			entries = append(entries, FileEntry{
				Path:        p,
				Name:        path.Base(p),
				IsDirectory: entry.IsDir(),
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("content directory not found", "root", d.root)
			return []FileEntry{}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	return entries, nil
}
