package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/postfilter/internal/filter"
	"github.com/nao1215/postfilter/internal/model"
)

// JSONWriter outputs results in JSON format.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONListing is the JSON document written for a result.
type JSONListing struct {
	// Query summarizes the selection, e.g. `tag "go"` or `all posts`.
	Query string `json:"query"`

	// Outcome is the result classification.
	Outcome string `json:"outcome"`

	// Count is the number of posts.
	Count int `json:"count"`

	// Posts are the selected posts. Never null.
	Posts []model.Post `json:"posts"`

	// Message is the empty or error state text.
	Message string `json:"message,omitempty"`

	// Error is the fetch error, for error outcomes.
	Error string `json:"error,omitempty"`
}

// NewJSONListing converts a result into its JSON document.
func NewJSONListing(result filter.Result) JSONListing {
	posts := result.Posts
	if posts == nil {
		posts = []model.Post{}
	}
	listing := JSONListing{
		Query:   result.Query.Describe(),
		Outcome: result.Outcome.String(),
		Count:   len(posts),
		Posts:   posts,
		Message: result.Message(),
	}
	if result.Err != nil {
		listing.Error = result.Err.Error()
	}
	return listing
}

// Write outputs the result in JSON format.
func (w *JSONWriter) Write(result filter.Result) (int, error) {
	var data []byte
	var err error

	listing := NewJSONListing(result)
	if w.indent {
		data, err = json.MarshalIndent(listing, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(listing)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
