package content

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const separator = "---"

// frontMatter is the YAML header of a markdown article.
type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Categories  []string `yaml:"categories"`
	Image       string   `yaml:"image"`
	Target      string   `yaml:"target"`
	Slug        string   `yaml:"slug"`
	Draft       bool     `yaml:"draft"`
}

// splitFrontMatter separates the YAML header from the markdown body.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(content, separator+"\n") {
		return fm, "", fmt.Errorf("%w: missing opening separator", ErrFrontMatter)
	}

	rest := strings.TrimPrefix(content, separator)
	if !strings.HasSuffix(rest, "\n") {
		rest += "\n"
	}
	idx := strings.Index(rest, "\n"+separator+"\n")
	if idx < 0 {
		return fm, "", fmt.Errorf("%w: missing closing separator", ErrFrontMatter)
	}
	raw := rest[:idx]
	body := rest[idx+len(separator)+2:]

	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return fm, "", fmt.Errorf("%w: %w", ErrFrontMatter, err)
	}
	return fm, body, nil
}

// dateLayouts are the accepted front matter date layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// normalizeDate rewrites a front matter date as YYYY-MM-DD.
// An empty date stays empty.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
