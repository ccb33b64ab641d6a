package content

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	phaseDirPattern  = regexp.MustCompile(`Phase (\d+)\s*-\s*(.+)`)
	lessonDirPattern = regexp.MustCompile(`^(\d+)-(.*)`)
	fileWordSplit    = regexp.MustCompile(`[-_]`)
)

// WeekRange is an inclusive span of study weeks.
type WeekRange struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// WeekTable maps phase numbers to week ranges.
type WeekTable struct {
	Ranges  map[int]WeekRange
	Default WeekRange
}

// DefaultWeekTable returns the built-in eight-phase schedule.
func DefaultWeekTable() WeekTable {
	return WeekTable{
		Ranges: map[int]WeekRange{
			1: {1, 4},
			2: {5, 8},
			3: {9, 16},
			4: {17, 24},
			5: {25, 36},
			6: {37, 44},
			7: {45, 52},
			8: {53, 56},
		},
		Default: WeekRange{1, 4},
	}
}

// Lookup returns the range for phase, or the table default.
func (t WeekTable) Lookup(phase int) WeekRange {
	if r, ok := t.Ranges[phase]; ok {
		return r
	}
	return t.Default
}

// PathInfo is the metadata implied by a lesson's location.
type PathInfo struct {
	PhaseNumber int
	PhaseID     string
	PhaseName   string
	LessonOrder int
	Weeks       WeekRange
}

// ParsePath derives phase and ordering metadata from a slash-separated
// "<phase dir>/<lesson dir>/<file>" relative path.
func ParsePath(rel string, weeks WeekTable) PathInfo {
	parts := strings.Split(rel, "/")
	phaseDir := parts[0]
	lessonDir := ""
	if len(parts) > 1 {
		lessonDir = parts[1]
	}

	info := PathInfo{
		PhaseNumber: defaultPhaseNumber,
		PhaseName:   phaseDir,
		LessonOrder: defaultLessonOrder,
	}
	if m := phaseDirPattern.FindStringSubmatch(phaseDir); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			info.PhaseNumber = n
			info.PhaseName = strings.TrimSpace(m[2])
		}
	}
	if m := lessonDirPattern.FindStringSubmatch(lessonDir); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			info.LessonOrder = n
		}
	}

	info.PhaseID = PhaseID(info.PhaseNumber)
	info.Weeks = weeks.Lookup(info.PhaseNumber)
	return info
}

// PhaseID formats the normalized phase identifier.
func PhaseID(number int) string {
	return fmt.Sprintf("phase-%d", number)
}

// PhaseNumber extracts N from "phase-N"; malformed ids sort last.
func PhaseNumber(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "phase-"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// BaseLessonName turns "03-two-pointers" into "Two Pointers".
func BaseLessonName(lessonDir string) string {
	name := lessonDir
	if m := lessonDirPattern.FindStringSubmatch(lessonDir); m != nil && m[2] != "" {
		name = m[2]
	}
	return capitalizeWords(strings.Split(name, "-"))
}

// LessonTitle computes the title of fileName inside a lesson called base.
func LessonTitle(fileName, base string) string {
	stem := strings.TrimSuffix(fileName, markdownExt)
	if stem == "main" {
		return base
	}
	return base + " - " + capitalizeWords(fileWordSplit.Split(stem, -1))
}

func phaseDescription(name string) string {
	return fmt.Sprintf("Master %s for FAANG interviews", strings.ToLower(name))
}

func capitalizeWords(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		out[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(out, " ")
}

func isMarkdown(name string) bool {
	return path.Ext(name) == markdownExt
}
