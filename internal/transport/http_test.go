package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/rpggio/studytrail/internal/testserver"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func do(t *testing.T, method, rawURL string, body any, header http.Header) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, rawURL, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

type errorBody struct {
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	ts := testserver.New(t, "")
	resp, body := do(t, http.MethodGet, ts.Server.URL+"/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestContentAndLessons(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL

	resp, body := do(t, http.MethodGet, base+"/api/content", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[struct {
		Phases []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Total   int    `json:"total"`
			Lessons []struct {
				ID        string `json:"id"`
				Completed bool   `json:"completed"`
			} `json:"lessons"`
		} `json:"phases"`
	}](t, body)
	require.Len(t, overview.Phases, 2)
	require.Equal(t, "Foundations", overview.Phases[0].Name)
	require.Equal(t, 3, overview.Phases[0].Total)
	require.Equal(t, content.LessonID(testserver.ArraysPath), overview.Phases[0].Lessons[0].ID)

	resp, body = do(t, http.MethodGet, base+"/api/content/search?q=breadth", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	search := decode[struct {
		Results []content.ContentFile `json:"results"`
	}](t, body)
	require.Len(t, search.Results, 1)
	require.Equal(t, testserver.BFSPath, search.Results[0].FilePath)

	id := content.LessonID(testserver.ArraysPath)
	resp, body = do(t, http.MethodGet, base+"/api/lessons/"+id, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lesson := decode[map[string]any](t, body)
	require.Equal(t, "Arrays and Strings", lesson["title"])
	require.Equal(t, false, lesson["completed"])

	resp, _ = do(t, http.MethodGet, base+"/api/lessons/NOPE", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLessonContentWithAnchors(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL
	id := content.LessonID(testserver.ArraysPath)

	for _, sel := range []string{"search", "binary search tree"} {
		resp, _ := do(t, http.MethodPost, base+"/api/notes", map[string]any{
			"lessonId":     id,
			"selectedText": sel,
			"noteContent":  "note on " + sel,
		}, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := do(t, http.MethodGet, base+"/api/lessons/"+id+"/content", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Content     string         `json:"content"`
		FrontMatter map[string]any `json:"frontMatter"`
		Notes       []struct {
			ID           string `json:"id"`
			SelectedText string `json:"selected_text"`
		} `json:"notes"`
		Anchors []struct {
			NoteID string `json:"note_id"`
			Start  int    `json:"start"`
			End    int    `json:"end"`
		} `json:"anchors"`
	}](t, body)

	require.NotContains(t, out.Content, "---")
	require.Equal(t, "easy", out.FrontMatter["difficulty"])
	require.Len(t, out.Notes, 2)
	require.Len(t, out.Anchors, 2)

	// The longer selection claims the first occurrence; the shorter one moves
	// to the next free "search".
	first, second := out.Anchors[0], out.Anchors[1]
	require.Equal(t, "binary search tree", out.Content[first.Start:first.End])
	require.Equal(t, "search", out.Content[second.Start:second.End])
	require.Greater(t, second.Start, first.End)

	resp, body = do(t, http.MethodGet, base+"/api/lessons/"+id+"/content?highlight=true", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	marked := decode[struct {
		Highlighted string `json:"highlighted"`
	}](t, body)
	require.Contains(t, marked.Highlighted, ">binary search tree</mark>")
	require.Equal(t, 2, strings.Count(marked.Highlighted, "<mark data-note-id="))
}

func TestFiles(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL

	resp, body := do(t, http.MethodGet, base+"/api/files", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	files := decode[struct {
		Files []content.FileEntry `json:"files"`
	}](t, body)
	paths := make([]string, 0, len(files.Files))
	for _, f := range files.Files {
		paths = append(paths, f.Path)
	}
	require.Contains(t, paths, "Phase 1 - Foundations")
	require.Contains(t, paths, testserver.HashingPath)

	resp, body = do(t, http.MethodGet, base+"/api/file?file="+url.QueryEscape(testserver.BFSPath), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	file := decode[map[string]string](t, body)
	require.Contains(t, file["content"], "title: Breadth-First Search")

	resp, _ = do(t, http.MethodGet, base+"/api/file", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base+"/api/file?file="+url.QueryEscape("../secrets.md"), nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base+"/api/file?file="+url.QueryEscape("Phase 9 - Nope/x.md"), nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProgressToggle(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL
	id := content.LessonID(testserver.HashingPath)

	resp, body := do(t, http.MethodPost, base+"/api/progress", map[string]string{"lessonId": id}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decode[struct {
		Success   bool `json:"success"`
		Completed bool `json:"completed"`
		Stats     struct {
			Total   int `json:"total_lessons_completed"`
			Current int `json:"current_streak"`
		} `json:"stats"`
	}](t, body)
	require.True(t, toggled.Success)
	require.True(t, toggled.Completed)
	require.Equal(t, 1, toggled.Stats.Total)
	require.Equal(t, 1, toggled.Stats.Current)
	require.Equal(t, []string{"🎉 Lesson Complete: Hashing"}, ts.Mailer.Subjects())

	resp, body = do(t, http.MethodPost, base+"/api/progress", map[string]string{"lessonId": id}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, decode[struct {
		Completed bool `json:"completed"`
	}](t, body).Completed)

	resp, body = do(t, http.MethodGet, base+"/api/stats", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(0), decode[map[string]any](t, body)["total_lessons_completed"])

	resp, _ = do(t, http.MethodPost, base+"/api/progress", map[string]string{}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, base+"/api/progress", map[string]string{"lessonId": "UNKNOWN"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProgressToggle_MailFailureDoesNotFail(t *testing.T) {
	ts := testserver.New(t, "")
	ts.Mailer.Err = io.ErrUnexpectedEOF

	resp, body := do(t, http.MethodPost, ts.Server.URL+"/api/progress",
		map[string]string{"lessonId": content.LessonID(testserver.BFSPath)}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.True(t, decode[struct {
		Completed bool `json:"completed"`
	}](t, body).Completed)
}

func TestConfidence(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL
	id := content.LessonID(testserver.BFSPath)

	resp, body := do(t, http.MethodPut, base+"/api/progress/"+id+"/confidence", map[string]int{"level": 5}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(5), decode[map[string]any](t, body)["confidence_level"])

	resp, _ = do(t, http.MethodPut, base+"/api/progress/"+id+"/confidence", map[string]int{"level": 6}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotesCRUD(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL
	id := content.LessonID(testserver.BFSPath)

	resp, body := do(t, http.MethodPost, base+"/api/notes", map[string]any{
		"lessonId":     id,
		"selectedText": "queue",
		"noteContent":  "FIFO",
		"positionData": map[string]int{"offset": 3},
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[struct {
		Note struct {
			ID           string          `json:"id"`
			PositionData json.RawMessage `json:"position_data"`
		} `json:"note"`
	}](t, body)
	require.NotEmpty(t, created.Note.ID)
	require.JSONEq(t, `{"offset":3}`, string(created.Note.PositionData))

	resp, _ = do(t, http.MethodPost, base+"/api/notes", map[string]any{"lessonId": id}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodGet, base+"/api/notes?lessonId="+id, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[struct {
		Notes []map[string]any `json:"notes"`
	}](t, body)
	require.Len(t, listed.Notes, 1)

	resp, _ = do(t, http.MethodGet, base+"/api/notes", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, http.MethodPut, base+"/api/notes", map[string]string{"noteId": created.Note.ID, "noteContent": "first in, first out"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "first in, first out")

	resp, _ = do(t, http.MethodPut, base+"/api/notes", map[string]string{"noteId": "missing", "noteContent": "x"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, base+"/api/notes?noteId="+created.Note.ID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Note deleted successfully", decode[map[string]string](t, body)["message"])

	resp, _ = do(t, http.MethodDelete, base+"/api/notes?noteId="+created.Note.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodGet, base+"/api/activity?lessonId="+id+"&limit=10", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	activity := decode[struct {
		Activity []struct {
			Type string `json:"type"`
		} `json:"activity"`
	}](t, body)
	require.Len(t, activity.Activity, 3)
	require.Equal(t, "note_deleted", activity.Activity[0].Type)

	resp, _ = do(t, http.MethodGet, base+"/api/activity?limit=abc", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAIChat(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL

	resp, body := do(t, http.MethodPost, base+"/api/ai/chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "help"}},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}](t, body)
	require.Equal(t, "Keep going!", out.Message)
	require.NotZero(t, out.Timestamp)
	require.Len(t, ts.Generator.Prompts(), 1)

	resp, body = do(t, http.MethodPost, base+"/api/ai/chat", map[string]any{"type": "chat"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[errorBody](t, body).Error, "messages")

	resp, _ = do(t, http.MethodPost, base+"/api/ai/chat", map[string]any{
		"type":     "hint",
		"messages": []any{},
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExport(t *testing.T) {
	ts := testserver.New(t, "")
	base := ts.Server.URL

	resp, _ := do(t, http.MethodPost, base+"/api/progress", map[string]string{"lessonId": content.LessonID(testserver.ArraysPath)}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, base+"/api/export.xlsx", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Lessons")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, "Arrays and Strings", rows[1][2])
	require.Equal(t, "yes", rows[1][5])
}

func TestCronEndpoints(t *testing.T) {
	ts := testserver.New(t, "cron-secret")
	base := ts.Server.URL
	auth := http.Header{"Authorization": []string{"Bearer cron-secret"}}

	resp, _ := do(t, http.MethodGet, base+"/api/cron/streak-reminder", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, base+"/api/cron/streak-reminder", nil, http.Header{"Authorization": []string{"Bearer wrong"}})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, http.MethodGet, base+"/api/cron/streak-reminder", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reminder := decode[map[string]any](t, body)
	require.Equal(t, "Streak reminder check completed", reminder["message"])
	require.Equal(t, false, reminder["streakReminderSent"])

	resp, _ = do(t, http.MethodPost, base+"/api/progress", map[string]string{"lessonId": content.LessonID(testserver.BFSPath)}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, base+"/api/cron/weekly-progress", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	digest := decode[map[string]any](t, body)
	require.Equal(t, "Weekly progress check completed", digest["message"])
	require.Equal(t, float64(1), digest["lessonsThisWeek"])
	require.Equal(t, true, digest["emailSent"])
	require.Contains(t, ts.Mailer.Subjects(), "📊 Your Weekly FAANG Prep Progress")
}

func TestEmptyContentRoot(t *testing.T) {
	ts := testserver.NewWithContent(t, fstest.MapFS{}, "")

	resp, body := do(t, http.MethodGet, ts.Server.URL+"/api/content", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"phases":[]}`, string(body))
}

func TestMCPMounted(t *testing.T) {
	ts := testserver.New(t, "")

	resp, _ := do(t, http.MethodGet, ts.Server.URL+"/mcp", nil, nil)
	require.NotEqual(t, http.StatusNotFound, resp.StatusCode)
}
