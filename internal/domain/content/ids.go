package content

import (
	"encoding/base32"
	"fmt"
	"strings"
	"unicode"
)

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// LessonID derives the stable identifier of a lesson from its relative path.
// Separators are normalized to forward slashes before encoding.
func LessonID(relPath string) string {
	encoded := idEncoding.EncodeToString([]byte(strings.ReplaceAll(relPath, `\`, "/")))
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, encoded)
}

// DecodeLessonID recovers the relative path a lesson id was derived from.
func DecodeLessonID(id string) (string, error) {
	if id == "" {
		return "", ErrInvalidLessonID
	}
	raw, err := idEncoding.DecodeString(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLessonID, err)
	}
	return string(raw), nil
}
