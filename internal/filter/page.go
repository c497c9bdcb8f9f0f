package filter

import (
	"context"
	"html/template"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/postfilter/internal/source"
)

// DefaultTimeout bounds a single dataset fetch started by a Page.
const DefaultTimeout = 10 * time.Second

// Container receives the rendered listing. Its whole content is replaced on
// every committed render.
type Container interface {
	Replace(content template.HTML)
}

// Buffer is an in-memory Container.
type Buffer struct {
	mu      sync.RWMutex
	content template.HTML
	writes  int
}

// Replace sets the buffer content.
func (b *Buffer) Replace(content template.HTML) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = content
	b.writes++
}

// Content returns the current content.
func (b *Buffer) Content() template.HTML {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// Writes returns how many times the content was replaced.
func (b *Buffer) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}

// Page is one page load: the URL selection, the posts container and the
// request token that decides which completion may write the container.
// Pages are not shared between page loads.
type Page struct {
	source    source.Source
	container Container
	timeout   time.Duration
	logger    *slog.Logger

	// latest is the token of the most recently initiated request.
	latest atomic.Uint64

	// mu serializes container writes and guards query and cancel. Taking
	// a token and replacing cancel happen under one lock.
	mu     sync.Mutex
	query  Query
	cancel context.CancelFunc

	// started, if set, is called once a request holds its token and before
	// it fetches.
	started func(token uint64)
}

// PageOption configures a Page.
type PageOption func(*Page)

// WithTimeout sets the per-request fetch timeout.
func WithTimeout(d time.Duration) PageOption {
	return func(p *Page) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPageLogger sets the logger used by the page and its filters.
func WithPageLogger(logger *slog.Logger) PageOption {
	return func(p *Page) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPage creates a Page writing to container.
func NewPage(src source.Source, container Container, opts ...PageOption) *Page {
	p := &Page{
		source:    src,
		container: container,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load runs the page-load path: it records the URL selection from values
// and renders it. A "q" parameter in values starts a search right away.
func (p *Page) Load(ctx context.Context, values url.Values) Result {
	return p.run(ctx, p.Select(values))
}

// Select records the URL selection from values without fetching, for pages
// whose listing is driven by Search alone. It returns the parsed query,
// including any "q" text.
func (p *Page) Select(values url.Values) Query {
	q := ParseQuery(values)

	p.mu.Lock()
	p.query = Query{Kind: q.Kind, Value: q.Value}
	p.mu.Unlock()

	return q
}

// Search runs the search path for text. Blank text falls back to the URL
// selection recorded by Load, or to every post when there is none.
func (p *Page) Search(ctx context.Context, text string) Result {
	p.mu.Lock()
	q := p.query.WithText(text)
	p.mu.Unlock()

	return p.run(ctx, q)
}

// Cancel aborts the in-flight request, if any.
func (p *Page) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// run executes a fresh Filter for q and commits its result when no newer
// request was started in the meantime. Starting a request cancels the one
// before it.
func (p *Page) run(ctx context.Context, q Query) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	token := p.latest.Add(1)
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = cancel
	p.mu.Unlock()

	if p.started != nil {
		p.started(token)
	}

	result := New(p.source, q, WithLogger(p.logger)).Run(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.latest.Load() {
		p.logger.Debug("discarding stale result",
			"token", token,
			"latest", p.latest.Load(),
		)
		result.Stale = true
		return result
	}

	p.cancel = nil
	p.container.Replace(result.HTML)
	return result
}
