package content_test

import (
	"testing"

	"github.com/rpggio/studytrail/internal/domain/content"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	src := "\xef\xbb\xbf---\r\ntitle: Heaps\r\nestimated_hours: 4\r\nestimatedHours: 9\r\norder: 3\r\n---\r\n# Heaps\r\n"

	fm, raw, body, err := content.ParseFrontMatter([]byte(src))
	require.NoError(t, err)
	require.Equal(t, "Heaps", fm.Title)
	require.Equal(t, 4.0, fm.Hours())
	require.Equal(t, 3, fm.Order)
	require.Equal(t, "Heaps", raw["title"])
	require.Equal(t, "# Heaps\r\n", string(body))
}

func TestParseFrontMatter_QuotedNumbers(t *testing.T) {
	fm, _, _, err := content.ParseFrontMatter([]byte("---\norder: \"7\"\nestimated_hours: \"2.5\"\nestimatedHours:\n---\n"))
	require.NoError(t, err)
	require.Equal(t, 7, fm.Order)
	require.Equal(t, 2.5, fm.Hours())
}

func TestParseFrontMatter_NonNumericRejected(t *testing.T) {
	for _, src := range []string{
		"---\norder: many\n---\n",
		"---\norder: 2.5\n---\n",
		"---\nestimated_hours: [1, 2]\n---\n",
	} {
		_, _, _, err := content.ParseFrontMatter([]byte(src))
		require.Error(t, err, src)
	}
}

func TestParseFrontMatter_NoHeader(t *testing.T) {
	fm, raw, body, err := content.ParseFrontMatter([]byte("# Title\n---\nrule above"))
	require.NoError(t, err)
	require.Equal(t, content.FrontMatter{}, fm)
	require.Nil(t, raw)
	require.Equal(t, 2.0, fm.Hours())
	require.Equal(t, "# Title\n---\nrule above", string(body))
}

func TestParseFrontMatter_EmptyHeader(t *testing.T) {
	_, raw, body, err := content.ParseFrontMatter([]byte("---\n---\ntext"))
	require.NoError(t, err)
	require.Nil(t, raw)
	require.Equal(t, "text", string(body))
}

func TestParseFrontMatter_Unterminated(t *testing.T) {
	_, _, _, err := content.ParseFrontMatter([]byte("---\ntitle: x\n"))
	require.ErrorIs(t, err, content.ErrUnterminatedFrontMatter)
}
