package content

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontMatter holds the recognised keys of a lesson header. Zero values mean absent.
type FrontMatter struct {
	Title               string  `yaml:"title"`
	Description         string  `yaml:"description"`
	EstimatedHours      float64 `yaml:"estimated_hours"`
	EstimatedHoursCamel float64 `yaml:"estimatedHours"`
	Difficulty          string  `yaml:"difficulty"`
	Order               int     `yaml:"order"`
}

// number decodes a YAML scalar that is numeric, whether or not it is quoted.
type number float64

func (n *number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	v := strings.TrimSpace(node.Value)
	if node.Tag == "!!null" || v == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	*n = number(f)
	return nil
}

type frontMatterFields struct {
	Title               string `yaml:"title"`
	Description         string `yaml:"description"`
	EstimatedHours      number `yaml:"estimated_hours"`
	EstimatedHoursCamel number `yaml:"estimatedHours"`
	Difficulty          string `yaml:"difficulty"`
	Order               number `yaml:"order"`
}

// Hours returns estimated_hours, then estimatedHours, then the default.
func (fm FrontMatter) Hours() float64 {
	if fm.EstimatedHours > 0 {
		return fm.EstimatedHours
	}
	if fm.EstimatedHoursCamel > 0 {
		return fm.EstimatedHoursCamel
	}
	return defaultEstimatedHours
}

var (
	fence   = []byte("---")
	utf8BOM = []byte("\xef\xbb\xbf")
)

// ParseFrontMatter splits src into its YAML header and markdown body.
// A file without an opening fence has an empty header and src as body.
func ParseFrontMatter(src []byte) (FrontMatter, map[string]any, []byte, error) {
	var fm FrontMatter

	header, body, found, err := splitFrontMatter(src)
	if err != nil {
		return fm, nil, nil, err
	}
	if !found || len(bytes.TrimSpace(header)) == 0 {
		return fm, nil, body, nil
	}

	var h frontMatterFields
	if err := yaml.Unmarshal(header, &h); err != nil {
		return FrontMatter{}, nil, nil, fmt.Errorf("parse front-matter: %w", err)
	}
	if float64(h.Order) != math.Trunc(float64(h.Order)) {
		return FrontMatter{}, nil, nil, fmt.Errorf("parse front-matter: order %v is not an integer", float64(h.Order))
	}
	fm = FrontMatter{
		Title:               h.Title,
		Description:         h.Description,
		EstimatedHours:      float64(h.EstimatedHours),
		EstimatedHoursCamel: float64(h.EstimatedHoursCamel),
		Difficulty:          h.Difficulty,
		Order:               int(h.Order),
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(header, &raw); err != nil {
		return FrontMatter{}, nil, nil, fmt.Errorf("parse front-matter: %w", err)
	}
	return fm, raw, body, nil
}

func splitFrontMatter(src []byte) (header, body []byte, found bool, err error) {
	src = bytes.TrimPrefix(src, utf8BOM)

	first, rest := nextLine(src)
	if !isFence(first) {
		return nil, src, false, nil
	}

	start := rest
	for len(rest) > 0 {
		line, next := nextLine(rest)
		if isFence(line) {
			return start[:len(start)-len(rest)], next, true, nil
		}
		rest = next
	}
	return nil, nil, false, ErrUnterminatedFrontMatter
}

func nextLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return b[:i], b[i+1:]
}

func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), fence)
}
