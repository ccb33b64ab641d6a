package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `studytrail tracks progress through a phased study curriculum.

Core concepts:
- Phase: a numbered block of weeks ("Phase 3 - Trees"), listed in numeric order.
- Lesson: one markdown file under a phase's lesson directory. Its id is derived from its path and is stable across restarts.
- Progress: per-lesson completion and a 1-5 confidence level. Completing lessons on consecutive days builds a streak.
- Note: free text attached to an exact passage of a lesson; list_notes returns them and read_lesson returns where each passage sits in the text.

Typical workflow:
1) Orient: list_phases or search_lessons.
2) Study: read_lesson(id); add_note for passages worth revisiting.
3) Record: toggle_lesson(id) when done; get_stats for streaks.
4) Review: recent_activity.

Docs:
- studytrail://docs/content-layout
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "studytrail://docs/content-layout",
		Name:        "content_layout",
		Title:       "Content directory layout",
		Description: "How lesson files are organized on disk and how their metadata is derived.",
		Content: `# Content layout

Lessons live under the content root:

    content/
      Phase 1 - Foundations/
        01-arrays-and-strings/
          main.md
          practice-problems.md
      Phase 2 - Graphs/
        01-bfs/
          main.md

## Phases

A top-level directory named "Phase <N> - <Name>" is one phase with id "phase-<N>".
Phases are ordered by N numerically, so Phase 10 follows Phase 9.
Directories that do not match the pattern are ignored.

Each phase number maps to a week range (phase 1: weeks 1-4, phase 2: 5-8, ...).
Unknown phase numbers use weeks 1-4.

## Lessons

Every ".md" file inside a lesson directory is a lesson.
A numeric directory prefix ("01-") sets the lesson order.

Titles come from front-matter, otherwise:
- "main.md" takes the directory name ("01-two-pointers" -> "Two Pointers").
- Other files append their own name ("Two Pointers - Practice Problems").

## Front-matter

An optional YAML block delimited by "---" lines at the top of the file:

    ---
    title: Two Pointer Patterns
    description: Solve array problems from both ends
    estimated_hours: 3
    difficulty: easy
    order: 2
    ---

Defaults: estimated_hours 2, difficulty "medium", order from the directory prefix.
A file whose front-matter cannot be parsed is skipped; its siblings are still listed.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
