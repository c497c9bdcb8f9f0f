package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/postfilter/internal/filter"
)

// Format names accepted by NewWriter.
const (
	FormatText     = "text"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Writer defines the interface for listing output.
type Writer interface {
	// Write outputs the result and returns the number of bytes written.
	Write(result filter.Result) (int, error)
}

// NewWriter returns the writer for format. JSON output is pretty-printed.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewTextWriter(output), nil
	case FormatHTML:
		return NewHTMLWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Returns the total bytes written. Stops on first error encountered.
func (m *MultiWriter) Write(result filter.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
