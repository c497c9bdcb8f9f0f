package report

import (
	"io"

	"github.com/nao1215/postfilter/internal/filter"
)

// HTMLWriter outputs the rendered container fragment.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs result.HTML followed by a newline.
func (w *HTMLWriter) Write(result filter.Result) (int, error) {
	return io.WriteString(w.output, string(result.HTML)+"\n")
}
