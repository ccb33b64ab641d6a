package content

// ContentFile is one discovered lesson markdown file.
type ContentFile struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description,omitempty"`
	EstimatedHours float64 `json:"estimated_hours"`
	Difficulty     string  `json:"difficulty"`
	OrderIndex     int     `json:"order_index"`
	FilePath       string  `json:"file_path"`
	FullPath       string  `json:"full_path"`
	LessonDir      string  `json:"lesson_dir"`
	FileName       string  `json:"file_name"`
	PhaseID        string  `json:"phase_id"`
	PhaseName      string  `json:"phase_name"`
	WeekStart      int     `json:"week_start"`
	WeekEnd        int     `json:"week_end"`
}

// Phase groups the lessons found under one phase directory.
type Phase struct {
	ID          string        `json:"id"`
	Number      int           `json:"number"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	WeekStart   int           `json:"week_start"`
	WeekEnd     int           `json:"week_end"`
	Lessons     []ContentFile `json:"lessons"`
	Completed   int           `json:"completed"`
	Total       int           `json:"total"`
}

// LessonBody is the content of a lesson file split into header and markdown.
type LessonBody struct {
	Raw         string         `json:"raw"`
	Markdown    string         `json:"markdown"`
	FrontMatter map[string]any `json:"front_matter,omitempty"`
}

// FileEntry is one item of a recursive content listing.
type FileEntry struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
}

const (
	defaultEstimatedHours = 2
	defaultDifficulty     = "medium"
	defaultLessonOrder    = 1
	defaultPhaseNumber    = 1
	markdownExt           = ".md"
)
