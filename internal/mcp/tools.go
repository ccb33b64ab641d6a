package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/studytrail/internal/domain/activity"
	"github.com/rpggio/studytrail/internal/domain/notes"
	"github.com/rpggio/studytrail/internal/domain/progress"
)

const maxActivityLimit = 200

type emptyParams struct{}

type lessonParams struct {
	ID string `json:"id" jsonschema:"lesson id as returned by list_phases or search_lessons"`
}

type searchParams struct {
	Query string `json:"query" jsonschema:"case-insensitive text matched against title, description and phase name"`
}

type listNotesParams struct {
	LessonID string `json:"lesson_id" jsonschema:"lesson id"`
}

type addNoteParams struct {
	LessonID     string `json:"lesson_id" jsonschema:"lesson id"`
	SelectedText string `json:"selected_text" jsonschema:"exact passage of the lesson text the note is attached to"`
	NoteContent  string `json:"note_content" jsonschema:"note body"`
}

type recentActivityParams struct {
	LessonID string `json:"lesson_id,omitempty" jsonschema:"restrict to one lesson"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries to return (default 50)"`
}

type readLessonResult struct {
	Lesson  progress.LessonProgress `json:"lesson"`
	Content string                  `json:"content"`
	Anchors []notes.Anchor          `json:"anchors,omitempty"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	t := &tools{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_phases",
		Description: "List all study phases with their lessons and completion state",
	}, t.listPhases)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_lesson",
		Description: "Get lesson metadata and completion state",
	}, t.getLesson)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "read_lesson",
		Description: "Read a lesson's markdown body with front-matter removed",
	}, t.readLesson)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_lessons",
		Description: "Search lessons by title, description or phase name",
	}, t.searchLessons)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "toggle_lesson",
		Description: "Mark a lesson complete, or incomplete if it already is; returns refreshed stats",
	}, t.toggleLesson)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_stats",
		Description: "Get streak, completion and study-hour statistics",
	}, t.getStats)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_notes",
		Description: "List notes attached to a lesson, newest first",
	}, t.listNotes)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_note",
		Description: "Attach a note to a passage of lesson text",
	}, t.addNote)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_activity",
		Description: "List recent study activity, newest first",
	}, t.recentActivity)
}

type tools struct {
	svc Services
}

func (t *tools) listPhases(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, any, error) {
	phases, err := t.svc.Progress.Overview(ctx)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(map[string]any{"phases": phases})
}

func (t *tools) getLesson(ctx context.Context, _ *sdkmcp.CallToolRequest, in lessonParams) (*sdkmcp.CallToolResult, any, error) {
	view, err := t.lesson(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(view)
}

func (t *tools) readLesson(ctx context.Context, _ *sdkmcp.CallToolRequest, in lessonParams) (*sdkmcp.CallToolResult, any, error) {
	view, err := t.lesson(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	body, err := t.svc.Content.ReadLesson(ctx, view.ContentFile)
	if err != nil {
		return nil, nil, toolError(err)
	}
	lessonNotes, err := t.svc.Notes.List(ctx, view.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(readLessonResult{
		Lesson:  *view,
		Content: body.Markdown,
		Anchors: notes.AnchorNotes(body.Markdown, lessonNotes),
	})
}

func (t *tools) searchLessons(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchParams) (*sdkmcp.CallToolResult, any, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, nil, &APIError{Code: "INVALID_INPUT", Message: "query is required"}
	}
	results, err := t.svc.Content.Search(ctx, in.Query)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(map[string]any{"results": results, "count": len(results)})
}

func (t *tools) toggleLesson(ctx context.Context, _ *sdkmcp.CallToolRequest, in lessonParams) (*sdkmcp.CallToolResult, any, error) {
	result, err := t.svc.Progress.Toggle(ctx, in.ID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(result)
}

func (t *tools) getStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyParams) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.svc.Progress.Stats(ctx)
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(stats)
}

func (t *tools) listNotes(ctx context.Context, _ *sdkmcp.CallToolRequest, in listNotesParams) (*sdkmcp.CallToolResult, any, error) {
	list, err := t.svc.Notes.List(ctx, in.LessonID)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if list == nil {
		list = []notes.Note{}
	}
	return jsonResult(map[string]any{"notes": list})
}

func (t *tools) addNote(ctx context.Context, _ *sdkmcp.CallToolRequest, in addNoteParams) (*sdkmcp.CallToolResult, any, error) {
	if _, err := t.svc.Content.FindLessonByID(ctx, in.LessonID); err != nil {
		return nil, nil, toolError(err)
	}
	note, err := t.svc.Notes.Create(ctx, notes.CreateRequest{
		LessonID:     in.LessonID,
		SelectedText: in.SelectedText,
		NoteContent:  in.NoteContent,
	})
	if err != nil {
		return nil, nil, toolError(err)
	}
	return jsonResult(note)
}

func (t *tools) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in recentActivityParams) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit > maxActivityLimit {
		opts.Limit = maxActivityLimit
	}
	if id := strings.TrimSpace(in.LessonID); id != "" {
		opts.LessonID = &id
	}
	entries, err := t.svc.Activity.Recent(ctx, opts)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	return jsonResult(map[string]any{"activity": entries})
}

func (t *tools) lesson(ctx context.Context, id string) (*progress.LessonProgress, error) {
	lesson, err := t.svc.Content.FindLessonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &progress.LessonProgress{ContentFile: *lesson}
	p, err := t.svc.Progress.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		view.Completed = p.Completed()
		view.CompletedAt = p.CompletedAt
		view.ConfidenceLevel = p.ConfidenceLevel
	}
	return view, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
