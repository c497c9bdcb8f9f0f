package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nao1215/postfilter/internal/filter"
	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/source"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// DefaultSiteTitle is the site name shown in page headers.
const DefaultSiteTitle = "Blog"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 5 * time.Second

// Store is the post store the server reads from.
type Store interface {
	source.Source

	// Article returns the article stored under slug.
	Article(ctx context.Context, slug string) (model.Article, error)
}

// Server serves the JSON datasets and the HTML pages.
type Server struct {
	store     Store
	listing   source.Source
	timeout   time.Duration
	staticDir string
	siteTitle string
	logger    *slog.Logger
	tmpl      *template.Template
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTimeout sets the fetch timeout of listing pages.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithStaticDir serves /static/ from dir instead of the built-in assets.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithSiteTitle sets the site name shown in page headers.
func WithSiteTitle(title string) Option {
	return func(s *Server) {
		if title != "" {
			s.siteTitle = title
		}
	}
}

// WithListingSource makes listing pages read their datasets from src rather
// than from the store, e.g. an HTTPSource pointing at another instance.
func WithListingSource(src source.Source) Option {
	return func(s *Server) {
		s.listing = src
	}
}

// New creates a Server reading from store.
func New(store Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, ErrNoStore
	}

	s := &Server{
		store:     store,
		timeout:   filter.DefaultTimeout,
		siteTitle: DefaultSiteTitle,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.listing == nil {
		s.listing = store
	}

	if s.staticDir != "" {
		info, err := os.Stat(s.staticDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStaticDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: %s is not a directory", ErrStaticDir, s.staticDir)
		}
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.tmpl = tmpl

	return s, nil
}

// Handler returns the HTTP handler with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+model.PostsEndpoint, s.handlePosts)
	mux.HandleFunc("GET "+model.TagsEndpoint, s.handleGroups(model.GroupTag))
	mux.HandleFunc("GET "+model.CategoriesEndpoint, s.handleGroups(model.GroupCategory))

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /posts/{slug}", s.handleArticle)
	mux.Handle("GET /static/", http.StripPrefix("/static/", s.staticHandler()))

	return s.withLogging(withSecurityHeaders(mux))
}

func (s *Server) staticHandler() http.Handler {
	if s.staticDir != "" {
		return http.FileServer(http.Dir(s.staticDir))
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The embedded directory always exists.
		panic(err)
	}
	return http.FileServerFS(sub)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start),
		)
	})
}
