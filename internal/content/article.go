package content

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/nao1215/postfilter/internal/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/crypto/sha3"
)

// newMarkdown returns the goldmark converter used for article bodies.
// Raw HTML inside markdown is dropped by the default renderer.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
}

// ParseArticle builds an article from the contents of a markdown file.
// name is the file name; its base without extension is the default slug.
// Drafts return ErrDraft.
func ParseArticle(md goldmark.Markdown, name string, data []byte) (model.Article, error) {
	fm, body, err := splitFrontMatter(string(data))
	if err != nil {
		return model.Article{}, fmt.Errorf("%s: %w", name, err)
	}
	if fm.Draft {
		return model.Article{}, fmt.Errorf("%s: %w", name, ErrDraft)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return model.Article{}, fmt.Errorf("%s: %w", name, ErrMissingTitle)
	}

	date, err := normalizeDate(fm.Date)
	if err != nil {
		return model.Article{}, fmt.Errorf("%s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(body), &buf); err != nil {
		return model.Article{}, fmt.Errorf("%s: convert markdown: %w", name, err)
	}

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if !validSlug(slug) {
		return model.Article{}, fmt.Errorf("%s: %w: %q", name, ErrInvalidSlug, slug)
	}

	description := strings.TrimSpace(fm.Description)
	if description == "" {
		description = Excerpt(buf.String(), ExcerptLength)
	}

	return model.Article{
		Slug: slug,
		Post: model.Post{
			Title:       strings.TrimSpace(fm.Title),
			URL:         model.PostURL(slug),
			Description: description,
			Date:        date,
			Tags:        nonEmpty(fm.Tags),
			Image:       fm.Image,
			Target:      fm.Target,
			Categories:  nonEmpty(fm.Categories),
		},
		Body:   template.HTML(buf.String()), //nolint:gosec // goldmark output without unsafe raw HTML
		Hash:   Hash(data),
		Source: name,
	}, nil
}

// validSlug reports whether slug is a single path segment that routes to
// /posts/{slug} unchanged.
func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	for _, r := range slug {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`/\?#%`, r) {
			return false
		}
	}
	return true
}

// Hash returns the hex SHA3-256 digest of data.
func Hash(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// nonEmpty trims values and drops blanks and duplicates, keeping order.
// The result is never nil.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
