package content_test

import (
	"testing"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	weeks := content.DefaultWeekTable()

	tests := []struct {
		name string
		path string
		want content.PathInfo
	}{
		{
			name: "conventional",
			path: "Phase 5 - System Design/07-load-balancing/main.md",
			want: content.PathInfo{PhaseNumber: 5, PhaseID: "phase-5", PhaseName: "System Design", LessonOrder: 7, Weeks: content.WeekRange{Start: 25, End: 36}},
		},
		{
			name: "tight dash spacing",
			path: "Phase 8-Mock Interviews/12-behavioral/main.md",
			want: content.PathInfo{PhaseNumber: 8, PhaseID: "phase-8", PhaseName: "Mock Interviews", LessonOrder: 12, Weeks: content.WeekRange{Start: 53, End: 56}},
		},
		{
			name: "unconventional names",
			path: "extras/bonus/main.md",
			want: content.PathInfo{PhaseNumber: 1, PhaseID: "phase-1", PhaseName: "extras", LessonOrder: 1, Weeks: content.WeekRange{Start: 1, End: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, content.ParsePath(tt.path, weeks))
		})
	}
}

func TestLessonTitle(t *testing.T) {
	require.Equal(t, "Two Pointers", content.BaseLessonName("02-two-pointers"))
	require.Equal(t, "Sliding Window", content.BaseLessonName("sliding-window"))

	require.Equal(t, "Two Pointers", content.LessonTitle("main.md", "Two Pointers"))
	require.Equal(t, "Two Pointers - Practice Problems", content.LessonTitle("practice-problems.md", "Two Pointers"))
	require.Equal(t, "Two Pointers - Cheat Sheet", content.LessonTitle("cheat_sheet.md", "Two Pointers"))
}

func TestPhaseNumber(t *testing.T) {
	require.Equal(t, 12, content.PhaseNumber("phase-12"))
	require.Greater(t, content.PhaseNumber("bogus"), 1000)
}

func TestLessonID_RoundTrip(t *testing.T) {
	paths := []string{
		"Phase 1 - Arrays/01-basics/main.md",
		"Phase 1 - Arrays/01-basics/main.mdx",
		"Phase 1 - Arrays/01-basics/ma-in.md",
		"Phase 1 - Arrays/01-basics/ma_in.md",
		"ünïcode/lesson/main.md",
	}

	seen := map[string]string{}
	for _, p := range paths {
		id := content.LessonID(p)
		require.Regexp(t, `^[A-Z2-7]+$`, id)
		require.Equal(t, id, content.LessonID(p))

		decoded, err := content.DecodeLessonID(id)
		require.NoError(t, err)
		require.Equal(t, p, decoded)

		prev, dup := seen[id]
		require.False(t, dup, "%s collides with %s", p, prev)
		seen[id] = p
	}
}

func TestLessonID_NormalizesSeparators(t *testing.T) {
	require.Equal(t, content.LessonID("a/b/c.md"), content.LessonID(`a\b\c.md`))
}

func TestDecodeLessonID_Invalid(t *testing.T) {
	_, err := content.DecodeLessonID("")
	require.ErrorIs(t, err, content.ErrInvalidLessonID)

	_, err = content.DecodeLessonID("not-base32!")
	require.ErrorIs(t, err, content.ErrInvalidLessonID)
}
