package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Discoverer scans a content tree for lessons. It never writes to the tree.
type Discoverer struct {
	fsys   fs.FS
	root   string
	weeks  WeekTable
	logger *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithWeekTable replaces the default phase-to-week schedule.
func WithWeekTable(t WeekTable) Option {
	return func(d *Discoverer) {
		if t.Ranges != nil {
			d.weeks = t
		}
	}
}

// WithLogger sets the logger used for skipped files and a missing root.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRoot sets the absolute directory reported in FullPath.
func WithRoot(root string) Option {
	return func(d *Discoverer) {
		d.root = root
	}
}

// New creates a Discoverer over fsys.
func New(fsys fs.FS, opts ...Option) *Discoverer {
	d := &Discoverer{
		fsys:   fsys,
		weeks:  DefaultWeekTable(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDirDiscoverer creates a Discoverer rooted at a directory on disk.
func NewDirDiscoverer(root string, opts ...Option) *Discoverer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return New(os.DirFS(root), append([]Option{WithRoot(root)}, opts...)...)
}

// Root returns the directory FullPath values are reported under.
func (d *Discoverer) Root() string {
	return d.root
}

// FS exposes the underlying filesystem.
func (d *Discoverer) FS() fs.FS {
	return d.fsys
}

// Discover walks the content tree and returns phases ordered by number,
// each holding its lessons ordered by OrderIndex.
func (d *Discoverer) Discover(ctx context.Context) ([]Phase, error) {
	phaseDirs, err := fs.ReadDir(d.fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Warn("content directory not found", "root", d.root)
			return []Phase{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}

	byID := map[string]*Phase{}
	var order []string

	for _, phaseDir := range phaseDirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !phaseDir.IsDir() {
			continue
		}
		lessonDirs, err := fs.ReadDir(d.fsys, phaseDir.Name())
		if err != nil {
			d.logger.Error("reading phase directory", "dir", phaseDir.Name(), "error", err)
			continue
		}

		for _, lessonDir := range lessonDirs {
			if !lessonDir.IsDir() {
				continue
			}
			dir := path.Join(phaseDir.Name(), lessonDir.Name())
			files, err := d.markdownFiles(dir)
			if err != nil {
				d.logger.Error("reading lesson directory", "dir", dir, "error", err)
				continue
			}

			base := BaseLessonName(lessonDir.Name())
			for _, name := range files {
				rel := path.Join(dir, name)
				lesson, info, err := d.loadLesson(rel, lessonDir.Name(), name, base)
				if err != nil {
					d.logger.Error("processing content file", "path", rel, "error", err)
					continue
				}

				phase, ok := byID[lesson.PhaseID]
				if !ok {
					phase = &Phase{
						ID:          info.PhaseID,
						Number:      info.PhaseNumber,
						Name:        info.PhaseName,
						Description: phaseDescription(info.PhaseName),
						WeekStart:   info.Weeks.Start,
						WeekEnd:     info.Weeks.End,
					}
					byID[lesson.PhaseID] = phase
					order = append(order, lesson.PhaseID)
				}
				phase.Lessons = append(phase.Lessons, lesson)
			}
		}
	}

	phases := make([]Phase, 0, len(order))
	for _, id := range order {
		phase := byID[id]
		sort.SliceStable(phase.Lessons, func(i, j int) bool {
			return phase.Lessons[i].OrderIndex < phase.Lessons[j].OrderIndex
		})
		phase.Total = len(phase.Lessons)
		phases = append(phases, *phase)
	}
	sort.SliceStable(phases, func(i, j int) bool {
		return PhaseNumber(phases[i].ID) < PhaseNumber(phases[j].ID)
	})
	return phases, nil
}

// Lessons flattens Discover into discovery order.
func (d *Discoverer) Lessons(ctx context.Context) ([]ContentFile, error) {
	phases, err := d.Discover(ctx)
	if err != nil {
		return nil, err
	}
	var lessons []ContentFile
	for _, phase := range phases {
		lessons = append(lessons, phase.Lessons...)
	}
	return lessons, nil
}

// FindLessonByID rediscovers the tree and returns the lesson with id.
func (d *Discoverer) FindLessonByID(ctx context.Context, id string) (*ContentFile, error) {
	lessons, err := d.Lessons(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if lessons[i].ID == id {
			return &lessons[i], nil
		}
	}
	return nil, ErrLessonNotFound
}

// Search matches query case-insensitively against title, description and phase name.
func (d *Discoverer) Search(ctx context.Context, query string) ([]ContentFile, error) {
	lessons, err := d.Lessons(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	results := []ContentFile{}
	for _, lesson := range lessons {
		if strings.Contains(strings.ToLower(lesson.Title), q) ||
			strings.Contains(strings.ToLower(lesson.Description), q) ||
			strings.Contains(strings.ToLower(lesson.PhaseName), q) {
			results = append(results, lesson)
		}
	}
	return results, nil
}

func (d *Discoverer) markdownFiles(dir string) ([]string, error) {
	entries, err := fs.ReadDir(d.fsys, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && isMarkdown(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *Discoverer) loadLesson(rel, lessonDir, fileName, base string) (ContentFile, PathInfo, error) {
	data, err := fs.ReadFile(d.fsys, rel)
	if err != nil {
		return ContentFile{}, PathInfo{}, fmt.Errorf("read: %w", err)
	}
	fm, _, _, err := ParseFrontMatter(data)
	if err != nil {
		return ContentFile{}, PathInfo{}, err
	}

	info := ParsePath(rel, d.weeks)

	title := fm.Title
	if title == "" {
		title = LessonTitle(fileName, base)
	}
	difficulty := fm.Difficulty
	if difficulty == "" {
		difficulty = defaultDifficulty
	}
	order := fm.Order
	if order == 0 {
		order = info.LessonOrder
	}

	return ContentFile{
		ID:             LessonID(rel),
		Title:          title,
		Description:    fm.Description,
		EstimatedHours: fm.Hours(),
		Difficulty:     difficulty,
		OrderIndex:     order,
		FilePath:       rel,
		FullPath:       d.fullPath(rel),
		LessonDir:      lessonDir,
		FileName:       fileName,
		PhaseID:        info.PhaseID,
		PhaseName:      info.PhaseName,
		WeekStart:      info.Weeks.Start,
		WeekEnd:        info.Weeks.End,
	}, info, nil
}

func (d *Discoverer) fullPath(rel string) string {
	if d.root == "" {
		return rel
	}
	return filepath.Join(d.root, filepath.FromSlash(rel))
}
