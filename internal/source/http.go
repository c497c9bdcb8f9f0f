package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nao1215/postfilter/internal/model"
)

const (
	// defaultTimeout bounds a single dataset request when no client is supplied.
	defaultTimeout = 10 * time.Second

	// defaultMaxBodySize limits how much of a response body is read.
	defaultMaxBodySize = 5 * 1024 * 1024

	defaultUserAgent = "postfilter (+https://github.com/nao1215/postfilter)"
)

// HTTPSource reads datasets from the JSON endpoints of a site.
type HTTPSource struct {
	// baseURL is the site root; endpoint paths are resolved against it.
	baseURL *url.URL

	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient sets the HTTP client used for requests.
// Use NewProxyClient to route requests through a SOCKS5 proxy.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(s *HTTPSource) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
// Non-positive values keep the default.
func WithMaxBodySize(size int64) Option {
	return func(s *HTTPSource) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *HTTPSource) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHTTPSource creates an HTTPSource for the site at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	s := &HTTPSource{
		baseURL:     u,
		client:      &http.Client{Timeout: defaultTimeout},
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Groups fetches the grouped dataset for kind from its endpoint.
func (s *HTTPSource) Groups(ctx context.Context, kind model.GroupKind) (model.GroupedDataset, error) {
	endpoint := kind.Endpoint()
	if endpoint == "" {
		return nil, ErrNoGroupKind
	}

	var ds model.GroupedDataset
	if err := s.getJSON(ctx, endpoint, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// Posts fetches the flat dataset from /api/posts.json.
func (s *HTTPSource) Posts(ctx context.Context) (model.FlatDataset, error) {
	var ds model.FlatDataset
	if err := s.getJSON(ctx, model.PostsEndpoint, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// getJSON performs a single GET request and decodes the body into v.
func (s *HTTPSource) getJSON(ctx context.Context, path string, v any) error {
	target := s.baseURL.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("dataset request failed", "url", target, "error", err)
		return fmt.Errorf("%w: GET %s: %w", ErrFetch, target, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("dataset response",
		"url", target,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %w: GET %s returned %d", ErrFetch, ErrStatus, target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize+1))
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrFetch, target, err)
	}
	if int64(len(body)) > s.maxBodySize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrMalformed, target, s.maxBodySize)
	}

	if err := json.Unmarshal(body, v); err != nil {
		s.logger.Warn("dataset body is not valid JSON", "url", target, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrMalformed, target, err)
	}
	return nil
}
