package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nao1215/postfilter/internal/filter"
)

var (
	accentColor = lipgloss.Color("#2DA44E")
	errorColor  = lipgloss.Color("#CF222E")
	dimColor    = lipgloss.Color("#6E7681")
	linkColor   = lipgloss.Color("#58A6FF")
	dateColor   = lipgloss.Color("#A371F7")
	tagColor    = lipgloss.Color("#FFA657")

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(dateColor).
			Italic(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(linkColor).
			Underline(true)

	tagStyle = lipgloss.NewStyle().
			Foreground(tagColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

// TextWriter outputs results as styled terminal text. Styles degrade to
// plain text when the output is not a color terminal.
type TextWriter struct {
	baseWriter

	// verbose adds the description of each post.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose enables post descriptions in the output.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the result in human-readable format.
func (w *TextWriter) Write(result filter.Result) (int, error) {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render(fmt.Sprintf("Posts: %s", result.Query.Describe())))
	sb.WriteString("\n\n")

	switch {
	case result.Outcome == filter.OutcomeError:
		sb.WriteString(errorStyle.Render(result.Message()))
		sb.WriteString("\n")
		if result.Err != nil {
			sb.WriteString(dimStyle.Render(result.Err.Error()))
			sb.WriteString("\n")
		}
	case len(result.Posts) == 0:
		sb.WriteString(dimStyle.Render(result.Message()))
		sb.WriteString("\n")
	default:
		for _, p := range result.Posts {
			sb.WriteString("  ")
			sb.WriteString(titleStyle.Render(p.Title))
			if p.Date != "" {
				sb.WriteString("  ")
				sb.WriteString(dateStyle.Render(p.Date))
			}
			sb.WriteString("\n")

			sb.WriteString("    ")
			sb.WriteString(linkStyle.Render(p.URL))
			sb.WriteString("\n")

			if len(p.Tags) > 0 {
				sb.WriteString("    ")
				sb.WriteString(tagStyle.Render("#" + strings.Join(p.Tags, " #")))
				sb.WriteString("\n")
			}
			if w.verbose && p.Description != "" {
				sb.WriteString("    ")
				sb.WriteString(dimStyle.Render(p.Description))
				sb.WriteString("\n")
			}
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("%s, %d post(s)", result.Outcome, len(result.Posts))))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}
