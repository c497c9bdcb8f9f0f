package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/postfilter/internal/filter"
	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/render"
)

// matchedResult creates a result with sample posts for testing.
func matchedResult() filter.Result {
	posts := []model.Post{
		{
			Title:       "Go Mutex Patterns",
			URL:         "/posts/go-mutex",
			Description: "Guarding shared state safely.",
			Date:        "2024-03-01",
			Tags:        []string{"go", "concurrency"},
		},
		{
			Title: "Go Channels",
			URL:   "/posts/go-channels",
			Date:  "2024-02-01",
			Tags:  []string{"go"},
		},
	}
	return filter.Result{
		Query:   filter.Query{Kind: model.GroupTag, Value: "go"},
		Outcome: filter.OutcomeMatched,
		Posts:   posts,
		HTML:    render.RenderAll(posts),
	}
}

func emptyResult() filter.Result {
	r := filter.Result{
		Query:   filter.Query{Kind: model.GroupTag, Value: "rust"},
		Outcome: filter.OutcomeNoGroup,
		Posts:   []model.Post{},
	}
	r.HTML = render.EmptyState(r.Message())
	return r
}

func errorResult() filter.Result {
	return filter.ErrorResult(filter.Query{}, errors.New("connection refused"))
}

// TestNewWriter tests writer selection by format name.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "", want: "*report.TextWriter"},
		{format: "text", want: "*report.TextWriter"},
		{format: "HTML", want: "*report.HTMLWriter"},
		{format: "json", want: "*report.JSONWriter"},
		{format: "markdown", want: "*report.MarkdownWriter"},
		{format: "md", want: "*report.MarkdownWriter"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("NewWriter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(w Writer) string {
	switch w.(type) {
	case *TextWriter:
		return "*report.TextWriter"
	case *HTMLWriter:
		return "*report.HTMLWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	default:
		return "unknown"
	}
}

// TestHTMLWriter tests that the container fragment is written unchanged.
func TestHTMLWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := matchedResult()

	n, err := NewHTMLWriter(&buf).Write(result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}
	if buf.String() != string(result.HTML)+"\n" {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

// TestJSONWriter tests the JSON document shape.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("matched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(matchedResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var listing JSONListing
		if err := json.Unmarshal(buf.Bytes(), &listing); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if listing.Query != `tag "go"` || listing.Outcome != "matched" || listing.Count != 2 {
			t.Errorf("unexpected listing: %+v", listing)
		}
		if listing.Message != "" || listing.Error != "" {
			t.Errorf("expected no message or error, got %+v", listing)
		}
		if strings.Contains(buf.String(), "\n  ") {
			t.Error("expected compact output")
		}
	})

	t.Run("error with pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(errorResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "\n  \"outcome\": \"error\"") {
			t.Errorf("expected indented error outcome, got %s", output)
		}
		if !strings.Contains(output, `"posts": []`) {
			t.Errorf("expected empty posts array, got %s", output)
		}
		if !strings.Contains(output, "connection refused") {
			t.Errorf("expected error text, got %s", output)
		}
	})

	t.Run("nil posts encode as empty array", func(t *testing.T) {
		t.Parallel()

		listing := NewJSONListing(filter.Result{Outcome: filter.OutcomeAll})
		if listing.Posts == nil || listing.Message != "No posts yet." {
			t.Errorf("unexpected listing: %+v", listing)
		}
	})
}

// TestMarkdownWriter tests the markdown table output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result filter.Result
		want   []string
		absent []string
	}{
		{
			name:   "matched",
			result: matchedResult(),
			want: []string{
				`# Posts: tag "go"`,
				"[Go Mutex Patterns](/posts/go-mutex)",
				"2024-03-01",
				"go, concurrency",
				"Guarding shared state safely.",
				"matched, 2 post(s)",
			},
		},
		{
			name:   "no group",
			result: emptyResult(),
			want:   []string{`No posts found for tag "rust".`, "no-group, 0 post(s)"},
			absent: []string{"| Title"},
		},
		{
			name:   "error",
			result: errorResult(),
			want:   []string{"[!CAUTION]", "Posts could not be loaded."},
			absent: []string{"| Title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if _, err := NewMarkdownWriter(&buf).Write(tt.result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected output to contain %q, got:\n%s", s, output)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(output, s) {
					t.Errorf("expected output not to contain %q, got:\n%s", s, output)
				}
			}
		})
	}
}

// TestTextWriter tests the terminal output.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("matched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(matchedResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, s := range []string{"Go Mutex Patterns", "/posts/go-channels", "#go #concurrency", "2024-02-01"} {
			if !strings.Contains(output, s) {
				t.Errorf("expected output to contain %q, got:\n%s", s, output)
			}
		}
		if strings.Contains(output, "Guarding shared state") {
			t.Error("description should only be shown in verbose mode")
		}
	})

	t.Run("verbose shows descriptions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf, WithVerbose(true)).Write(matchedResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Guarding shared state") {
			t.Errorf("expected description, got:\n%s", buf.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).Write(errorResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Posts could not be loaded.") || !strings.Contains(output, "connection refused") {
			t.Errorf("expected error state, got:\n%s", output)
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var htmlBuf, jsonBuf bytes.Buffer
	mw := NewMultiWriter(NewHTMLWriter(&htmlBuf), NewJSONWriter(&jsonBuf))

	n, err := mw.Write(emptyResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != htmlBuf.Len()+jsonBuf.Len() {
		t.Errorf("total = %d, want %d", n, htmlBuf.Len()+jsonBuf.Len())
	}
	if !strings.Contains(htmlBuf.String(), "posts-empty") {
		t.Errorf("expected empty state fragment, got %s", htmlBuf.String())
	}
	if !strings.Contains(jsonBuf.String(), `"outcome":"no-group"`) {
		t.Errorf("expected no-group outcome, got %s", jsonBuf.String())
	}
}
