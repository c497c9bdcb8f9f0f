package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/postfilter/internal/filter"
)

// MarkdownWriter outputs results as a markdown document with one table row
// per post.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result filter.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Posts: " + result.Query.Describe())
	md.PlainText("")

	switch {
	case result.Outcome == filter.OutcomeError:
		md.Cautionf("%s", result.Message())
		md.PlainText("")
	case len(result.Posts) == 0:
		md.Note(result.Message())
		md.PlainText("")
	default:
		w.writeTable(md, result)
	}

	md.PlainTextf("%s, %s post(s)", result.Outcome, strconv.Itoa(len(result.Posts)))

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeTable(md *markdown.Markdown, result filter.Result) {
	rows := make([][]string, 0, len(result.Posts))
	for _, p := range result.Posts {
		rows = append(rows, []string{
			link(p.Title, p.URL),
			cell(p.Date),
			cell(strings.Join(p.Tags, ", ")),
			cell(p.Description),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Date", "Tags", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

// cell escapes characters that would break a table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func link(text, url string) string {
	if url == "" {
		return cell(text)
	}
	text = strings.NewReplacer("[", `\[`, "]", `\]`).Replace(cell(text))
	return "[" + text + "](" + strings.ReplaceAll(url, " ", "%20") + ")"
}
