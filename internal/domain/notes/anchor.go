package notes

import (
	"sort"
	"strings"
)

// Anchor locates a note's selected text inside a lesson body.
// Start and End are byte offsets into the text.
type Anchor struct {
	NoteID string `json:"note_id"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// AnchorNotes places each note on the first occurrence of its trimmed
// selected text that no longer selection has already claimed. Longer
// selections are placed first; ties keep input order. Notes whose text
// is empty or cannot be placed are left out. The result is ordered by Start.
func AnchorNotes(text string, notes []Note) []Anchor {
	order := make([]int, len(notes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(strings.TrimSpace(notes[order[a]].SelectedText)) >
			len(strings.TrimSpace(notes[order[b]].SelectedText))
	})

	anchors := []Anchor{}
	for _, i := range order {
		needle := strings.TrimSpace(notes[i].SelectedText)
		if needle == "" {
			continue
		}
		if start, ok := firstFreeOccurrence(text, needle, anchors); ok {
			anchors = append(anchors, Anchor{
				NoteID: notes[i].ID,
				Start:  start,
				End:    start + len(needle),
			})
		}
	}

	sort.Slice(anchors, func(a, b int) bool {
		return anchors[a].Start < anchors[b].Start
	})
	return anchors
}

func firstFreeOccurrence(text, needle string, claimed []Anchor) (int, bool) {
	from := 0
	for from+len(needle) <= len(text) {
		k := strings.Index(text[from:], needle)
		if k < 0 {
			return 0, false
		}
		start := from + k
		end := start + len(needle)
		if !overlaps(claimed, start, end) {
			return start, true
		}
		from = start + 1
	}
	return 0, false
}

func overlaps(claimed []Anchor, start, end int) bool {
	for _, a := range claimed {
		if start < a.End && a.Start < end {
			return true
		}
	}
	return false
}

// Highlight wraps every anchored span of text with the markers returned by
// openTag and closeTag. Anchors must be ordered and non-overlapping, as returned
// by AnchorNotes.
func Highlight(text string, anchors []Anchor, openTag, closeTag func(Anchor) string) string {
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, a := range anchors {
		if a.Start < pos || a.End > len(text) || a.Start > a.End {
			continue
		}
		b.WriteString(text[pos:a.Start])
		b.WriteString(openTag(a))
		b.WriteString(text[a.Start:a.End])
		b.WriteString(closeTag(a))
		pos = a.End
	}
	b.WriteString(text[pos:])
	return b.String()
}
