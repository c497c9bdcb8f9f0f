package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nao1215/postfilter/internal/model"
	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of files parsed concurrently.
const DefaultWorkers = 4

// Indexer reads markdown articles from a directory.
type Indexer struct {
	dir     string
	workers int
	logger  *slog.Logger
	md      goldmark.Markdown
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithWorkers sets the maximum number of files parsed concurrently.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// NewIndexer creates an Indexer for dir.
func NewIndexer(dir string, opts ...Option) *Indexer {
	ix := &Indexer{
		dir:     dir,
		workers: DefaultWorkers,
		md:      newMarkdown(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = slog.Default()
	}
	return ix
}

// Index parses every *.md file in the directory, non-recursively.
// Drafts are skipped. The returned articles follow file name order.
// The first parse error cancels the remaining work and is returned.
func (ix *Indexer) Index(ctx context.Context) ([]model.Article, error) {
	entries, err := os.ReadDir(ix.dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)

	ix.logger.Info("indexing articles",
		"dir", ix.dir,
		"files", len(names),
		"workers", ix.workers,
	)
	start := time.Now()

	// Slots keep file name order regardless of completion order.
	slots := make([]*model.Article, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(filepath.Join(ix.dir, name))
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}

			article, err := ParseArticle(ix.md, name, data)
			if errors.Is(err, ErrDraft) {
				ix.logger.Debug("skipping draft", "file", name)
				return nil
			}
			if err != nil {
				return err
			}

			slots[i] = &article
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	articles := make([]model.Article, 0, len(slots))
	seen := make(map[string]string, len(slots))
	for _, a := range slots {
		if a == nil {
			continue
		}
		if prev, ok := seen[a.Slug]; ok {
			return nil, fmt.Errorf("%w: %q used by %s and %s", ErrDuplicateSlug, a.Slug, prev, a.Source)
		}
		seen[a.Slug] = a.Source
		articles = append(articles, *a)
	}

	ix.logger.Info("indexing complete",
		"articles", len(articles),
		"elapsed", time.Since(start),
	)
	return articles, nil
}
