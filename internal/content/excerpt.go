package content

import (
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// ExcerptLength is the maximum number of characters in a generated description.
const ExcerptLength = 200

// skipText lists elements whose text never belongs in an excerpt.
var skipText = map[string]bool{
	"script": true,
	"style":  true,
	"pre":    true,
}

// blockTags end a run of text; their boundaries separate words.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "blockquote": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"td": true, "th": true, "tr": true, "hr": true,
}

// Excerpt returns up to limit characters of the visible text of an HTML
// fragment, with whitespace collapsed. Text is cut at a word boundary when
// one exists.
func Excerpt(fragment string, limit int) string {
	var sb strings.Builder
	depth := 0

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return ""
			}
			return truncateWords(strings.Join(strings.Fields(sb.String()), " "), limit)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				sb.WriteByte(' ')
			}
			if skipText[string(name)] && tt == html.StartTagToken {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if skipText[string(name)] && depth > 0 {
				depth--
			}
			if blockTags[string(name)] {
				sb.WriteByte(' ')
			}
		case html.TextToken:
			if depth == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func truncateWords(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 && runes[limit] != ' ' {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
