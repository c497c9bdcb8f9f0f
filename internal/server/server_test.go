package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/postfilter/internal/database"
	"github.com/nao1215/postfilter/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore opens a database seeded with a small corpus.
func newTestStore(t *testing.T) *database.PostDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	articles := []model.Article{
		{
			Slug: "go-mutex",
			Post: model.Post{
				Title: "Go Mutex Patterns", URL: model.PostURL("go-mutex"),
				Description: "Guarding shared state.", Date: "2024-03-01",
				Tags: []string{"go", "concurrency"}, Categories: []string{"Patterns"},
			},
			Body: "<p>Use <strong>sync.Mutex</strong>.</p>",
			Hash: "h1",
		},
		{
			Slug: "react-hooks",
			Post: model.Post{
				Title: "React Hooks", URL: model.PostURL("react-hooks"),
				Description: "State in components.", Date: "2024-02-01",
				Tags: []string{"js"}, Categories: []string{"Frontend"},
			},
			Body: "<p>Hooks.</p>",
			Hash: "h2",
		},
	}
	for _, a := range articles {
		if _, err := db.UpsertArticle(t.Context(), a); err != nil {
			t.Fatalf("UpsertArticle(%s): %v", a.Slug, err)
		}
	}
	return db
}

func newTestServer(t *testing.T, store Store, opts ...Option) *httptest.Server {
	t.Helper()

	srv, err := New(store, append([]Option{WithLogger(quietLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, header ...string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

// failingStore fails every dataset request.
type failingStore struct{}

func (failingStore) Groups(context.Context, model.GroupKind) (model.GroupedDataset, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Posts(context.Context) (model.FlatDataset, error) {
	return nil, errors.New("store unavailable")
}

func (failingStore) Article(context.Context, string) (model.Article, error) {
	return model.Article{}, errors.New("store unavailable")
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !errors.Is(err, ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "file.css")
	if err := os.WriteFile(file, []byte("body{}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(failingStore{}, WithStaticDir(file)); !errors.Is(err, ErrStaticDir) {
		t.Errorf("expected ErrStaticDir for a file, got %v", err)
	}
	if _, err := New(failingStore{}, WithStaticDir(filepath.Join(t.TempDir(), "missing"))); !errors.Is(err, ErrStaticDir) {
		t.Errorf("expected ErrStaticDir for a missing dir, got %v", err)
	}
}

func TestAPIEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newTestStore(t))

	t.Run("posts", func(t *testing.T) {
		t.Parallel()

		resp, body := get(t, ts.URL+"/api/posts.json")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("content type = %q", ct)
		}

		var posts model.FlatDataset
		if err := json.Unmarshal([]byte(body), &posts); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(posts) != 2 || posts[0].Title != "Go Mutex Patterns" {
			t.Errorf("unexpected posts: %+v", posts)
		}
	})

	t.Run("tags", func(t *testing.T) {
		t.Parallel()

		_, body := get(t, ts.URL+"/api/tags.json")
		var groups model.GroupedDataset
		if err := json.Unmarshal([]byte(body), &groups); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := strings.Join(groups.Names(), ","); got != "concurrency,go,js" {
			t.Errorf("tag names = %q", got)
		}
	})

	t.Run("categories", func(t *testing.T) {
		t.Parallel()

		_, body := get(t, ts.URL+"/api/categories.json")
		var groups model.GroupedDataset
		if err := json.Unmarshal([]byte(body), &groups); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got := strings.Join(groups.Names(), ","); got != "Frontend,Patterns" {
			t.Errorf("category names = %q", got)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		failing := newTestServer(t, failingStore{})
		resp, _ := get(t, failing.URL+"/api/tags.json")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", resp.StatusCode)
		}
	})
}

func TestETag(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newTestStore(t))

	resp, body := get(t, ts.URL+"/api/posts.json")
	etag := resp.Header.Get("ETag")
	if etag != ETag([]byte(body)) {
		t.Fatalf("ETag = %q, want digest of body", etag)
	}

	resp, body = get(t, ts.URL+"/api/posts.json", "If-None-Match", etag)
	if resp.StatusCode != http.StatusNotModified || body != "" {
		t.Errorf("status = %d, body = %q, want 304 without body", resp.StatusCode, body)
	}

	resp, _ = get(t, ts.URL+"/api/posts.json", "If-None-Match", `"other"`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for a stale validator", resp.StatusCode)
	}
}

func TestETagMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header string
		want   bool
	}{
		{header: `"abc"`, want: true},
		{header: `W/"abc"`, want: true},
		{header: `"x", "abc"`, want: true},
		{header: `*`, want: true},
		{header: `"abcd"`, want: false},
		{header: `abc`, want: false},
	}
	for _, tt := range tests {
		if got := etagMatches(tt.header, `"abc"`); got != tt.want {
			t.Errorf("etagMatches(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestListingPages(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newTestStore(t))

	tests := []struct {
		name   string
		path   string
		want   []string
		absent []string
	}{
		{
			name:   "all posts",
			path:   "/",
			want:   []string{`<section id="posts">`, "Go Mutex Patterns", "React Hooks"},
			absent: []string{"posts-empty"},
		},
		{
			name:   "tag",
			path:   "/?tag=go",
			want:   []string{"Go Mutex Patterns", `name="tag" value="go"`},
			absent: []string{"React Hooks"},
		},
		{
			name:   "tag wins over category",
			path:   "/?category=Frontend&tag=go",
			want:   []string{"Go Mutex Patterns"},
			absent: []string{"React Hooks"},
		},
		{
			name:   "unknown tag",
			path:   "/?tag=rust",
			want:   []string{"posts-empty", "No posts found for tag"},
			absent: []string{"post-card"},
		},
		{
			name:   "search",
			path:   "/search?q=HOOKS",
			want:   []string{"React Hooks"},
			absent: []string{"Go Mutex Patterns"},
		},
		{
			name:   "blank search falls back to the URL selection",
			path:   "/search?category=Frontend&q=+",
			want:   []string{"React Hooks"},
			absent: []string{"Go Mutex Patterns"},
		},
		{
			name:   "search without matches",
			path:   "/search?q=zzz",
			want:   []string{"No posts match"},
			absent: []string{"post-card"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("expected body to contain %q", s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(body, s) {
					t.Errorf("expected body not to contain %q", s)
				}
			}
		})
	}
}

func TestListingError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, failingStore{})

	resp, body := get(t, ts.URL+"/?tag=go")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
	if !strings.Contains(body, "posts-error") {
		t.Errorf("expected visible error state, got %s", body)
	}
	if resp.Header.Get("ETag") != "" {
		t.Error("error pages must not carry an ETag")
	}
}

func TestArticlePage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newTestStore(t), WithSiteTitle("Dev Notes"))

	resp, body := get(t, ts.URL+"/posts/go-mutex")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, s := range []string{
		"<strong>sync.Mutex</strong>",
		"<title>Go Mutex Patterns | Dev Notes</title>",
		`href="/?tag=concurrency"`,
		`href="/?category=Patterns"`,
	} {
		if !strings.Contains(body, s) {
			t.Errorf("expected body to contain %q", s)
		}
	}

	resp, _ = get(t, ts.URL+"/posts/missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	failing := newTestServer(t, failingStore{})
	resp, _ = get(t, failing.URL+"/posts/go-mutex")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()

	t.Run("built-in", func(t *testing.T) {
		t.Parallel()

		ts := newTestServer(t, failingStore{})
		resp, body := get(t, ts.URL+"/static/style.css")
		if resp.StatusCode != http.StatusOK || !strings.Contains(body, ".post-card") {
			t.Errorf("status = %d, body = %q", resp.StatusCode, body)
		}
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "style.css"), []byte("main{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		ts := newTestServer(t, failingStore{}, WithStaticDir(dir))
		_, body := get(t, ts.URL+"/static/style.css")
		if body != "main{}" {
			t.Errorf("body = %q", body)
		}
	})
}

func TestUnknownPath(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, failingStore{})
	resp, _ := get(t, ts.URL+"/unknown")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	t.Parallel()

	srv, err := New(failingStore{}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() error = %v", err)
	}
}
