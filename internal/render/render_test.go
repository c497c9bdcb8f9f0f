package render

import (
	"strings"
	"testing"

	"github.com/nao1215/postfilter/internal/model"
	"golang.org/x/net/html"
)

// parseFragment parses a rendered fragment and returns every anchor href and
// the concatenated text content.
func parseFragment(t *testing.T, fragment string) ([]string, string) {
	t.Helper()

	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type: html.ElementNode,
		Data: "section",
	})
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}

	var hrefs []string
	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "a" {
				for _, attr := range n.Attr {
					if attr.Key == "href" {
						hrefs = append(hrefs, attr.Val)
					}
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return hrefs, text.String()
}

// TestRender tests the card produced for a single post.
func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		post model.Post
	}{
		{
			name: "all fields",
			post: model.Post{
				Title:       "Mutex or channel",
				URL:         "/posts/mutex-or-channel",
				Description: "When to reach for sync.Mutex.",
				Date:        "2024-03-01",
				Tags:        []string{"go"},
				Image:       "/img/mutex.png",
				Target:      "_blank",
			},
		},
		{
			name: "required fields only",
			post: model.Post{
				Title:       "Options pattern",
				URL:         "/posts/options",
				Description: "Functional options.",
				Date:        "2023-11-20",
			},
		},
		{
			name: "characters that need escaping",
			post: model.Post{
				Title:       "Errors & <wrapping>",
				URL:         "/posts/errors?x=1&y=2",
				Description: `"quoted" text`,
				Date:        "2022-01-01",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := string(Render(tt.post))
			hrefs, text := parseFragment(t, got)

			if len(hrefs) != 1 {
				t.Fatalf("expected exactly one link, got %d: %s", len(hrefs), got)
			}
			if hrefs[0] != tt.post.URL {
				t.Errorf("expected link target %q, got %q", tt.post.URL, hrefs[0])
			}
			if strings.Count(text, tt.post.Title) != 1 {
				t.Errorf("expected title %q exactly once in %q", tt.post.Title, text)
			}
			if !strings.Contains(text, tt.post.Date) {
				t.Errorf("expected date %q in %q", tt.post.Date, text)
			}
			if !strings.Contains(text, tt.post.Description) {
				t.Errorf("expected description %q in %q", tt.post.Description, text)
			}
		})
	}
}

// TestRenderOptionalFields tests that absent image and target degrade gracefully.
func TestRenderOptionalFields(t *testing.T) {
	t.Parallel()

	t.Run("image omitted when empty", func(t *testing.T) {
		t.Parallel()

		got := string(Render(model.Post{Title: "A", URL: "/a"}))
		if strings.Contains(got, "<img") {
			t.Errorf("expected no img element, got %s", got)
		}
		if !strings.Contains(got, `target=""`) {
			t.Errorf("expected empty target attribute, got %s", got)
		}
	})

	t.Run("image rendered when set", func(t *testing.T) {
		t.Parallel()

		got := string(Render(model.Post{Title: "A", URL: "/a", Image: "/img/a.png"}))
		if !strings.Contains(got, `src="/img/a.png"`) {
			t.Errorf("expected image source, got %s", got)
		}
	})

	t.Run("zero post renders without panicking", func(t *testing.T) {
		t.Parallel()

		got := string(Render(model.Post{}))
		if !strings.HasPrefix(got, `<article class="post-card">`) {
			t.Errorf("unexpected fragment %s", got)
		}
	})
}

// TestRenderNormalizesURLs pins the percent-encoding html/template applies
// to link targets.
func TestRenderNormalizesURLs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "ascii path", url: "/posts/go-mutex", want: "/posts/go-mutex"},
		{name: "non-ascii path", url: "/posts/café", want: "/posts/caf%c3%a9"},
		{name: "space", url: "/posts/a b", want: "/posts/a%20b"},
		{name: "already encoded", url: "/posts/a%20b", want: "/posts/a%20b"},
		{name: "absolute url with query", url: "https://example.com/p?x=1&y=2", want: "https://example.com/p?x=1&y=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := string(Render(model.Post{Title: "T", URL: tt.url}))
			hrefs, _ := parseFragment(t, got)
			if len(hrefs) != 1 {
				t.Fatalf("expected exactly one link, got %d: %s", len(hrefs), got)
			}
			if hrefs[0] != tt.want {
				t.Errorf("link target = %q, want %q", hrefs[0], tt.want)
			}
		})
	}
}

// TestRenderEscapesMarkup tests that post fields cannot inject markup.
func TestRenderEscapesMarkup(t *testing.T) {
	t.Parallel()

	got := string(Render(model.Post{Title: "<script>alert(1)</script>", URL: "javascript:alert(1)"}))

	if strings.Contains(got, "<script>") {
		t.Errorf("expected title to be escaped, got %s", got)
	}
	if strings.Contains(got, `href="javascript:`) {
		t.Errorf("expected unsafe URL to be neutralized, got %s", got)
	}
}

// TestRenderIsIdempotent tests that the same post always yields the same bytes.
func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	post := model.Post{Title: "Mutex", URL: "/posts/mutex", Date: "2024-01-01", Tags: []string{"go"}}

	first := Render(post)
	second := Render(post)
	if first != second {
		t.Errorf("expected identical output:\n%s\n%s", first, second)
	}
}

// TestRenderAll tests that cards are concatenated in dataset order.
func TestRenderAll(t *testing.T) {
	t.Parallel()

	posts := []model.Post{
		{Title: "A", URL: "/a"},
		{Title: "B", URL: "/b"},
		{Title: "C", URL: "/c"},
	}

	got := string(RenderAll(posts))
	hrefs, _ := parseFragment(t, got)

	want := []string{"/a", "/b", "/c"}
	if strings.Join(hrefs, ",") != strings.Join(want, ",") {
		t.Errorf("expected order %v, got %v", want, hrefs)
	}

	if RenderAll(nil) != "" {
		t.Error("expected empty output for no posts")
	}
}

// TestStates tests the empty and error state fragments.
func TestStates(t *testing.T) {
	t.Parallel()

	empty := string(EmptyState("No posts tagged <rust>."))
	if !strings.Contains(empty, `class="posts-empty"`) || !strings.Contains(empty, "&lt;rust&gt;") {
		t.Errorf("unexpected empty state %s", empty)
	}

	errState := string(ErrorState("Could not load posts."))
	if !strings.Contains(errState, `class="posts-error"`) {
		t.Errorf("unexpected error state %s", errState)
	}
}
