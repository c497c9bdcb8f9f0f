package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/postfilter/internal/config"
	"github.com/nao1215/postfilter/internal/content"
	"github.com/nao1215/postfilter/internal/database"
	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/source"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index markdown articles or feeds into the post store",
		Long: `Index reads markdown articles with YAML front matter and stores them in the
SQLite post store. Unchanged articles are skipped. Articles that are no longer
present in the content directory are removed unless --keep-missing is given.

With --feed, items of RSS or Atom feeds are imported instead.

Examples:
  # Index ./content
  postfilter index

  # Index another directory with 8 workers
  postfilter index --content ~/blog/posts --workers 8

  # Import a feed
  postfilter index --feed https://example.com/feed.xml`,
		Args: cobra.NoArgs,
		RunE: runIndexCmd,
	}

	cmd.Flags().StringP("content", "d", config.DefaultContentDir,
		"Directory of markdown articles")
	cmd.Flags().String("db", "",
		"Post store directory (default: XDG data directory)")
	cmd.Flags().StringSlice("feed", nil,
		"RSS or Atom feed URL to import (repeatable)")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of articles parsed concurrently")
	cmd.Flags().Bool("keep-missing", false,
		"Keep stored articles that are no longer in the content directory")

	return cmd
}

// indexStats summarizes one index run.
type indexStats struct {
	total     int
	written   int
	unchanged int
	removed   int
}

func runIndexCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := overrideString(cmd, "content", &cfg.ContentDir); err != nil {
		return err
	}
	if err := overrideString(cmd, "db", &cfg.DBDir); err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return err
		}
	}
	feeds, err := cmd.Flags().GetStringSlice("feed")
	if err != nil {
		return err
	}
	keepMissing, err := cmd.Flags().GetBool("keep-missing")
	if err != nil {
		return err
	}

	cfg.UseDB = true
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}

	logger := setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var articles []model.Article
	if len(feeds) > 0 {
		articles, err = importFeeds(ctx, cfg, feeds, logger)
	} else {
		articles, err = content.NewIndexer(cfg.ContentDir,
			content.WithWorkers(cfg.Workers),
			content.WithLogger(logger),
		).Index(ctx)
	}
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Feeds add to the store; only a content directory run is authoritative.
	stats, err := storeArticles(ctx, db, articles, len(feeds) == 0 && !keepMissing)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d article(s): %d written, %d unchanged, %d removed\n",
		stats.total, stats.written, stats.unchanged, stats.removed)
	fmt.Fprintf(cmd.OutOrStdout(), "Post store: %s\n", db.Path())
	return nil
}

// storeArticles upserts articles and, when prune is set, removes stored
// articles that are not among them.
func storeArticles(ctx context.Context, db *database.PostDB, articles []model.Article, prune bool) (indexStats, error) {
	stats := indexStats{total: len(articles)}

	slugs := make([]string, 0, len(articles))
	for _, a := range articles {
		wrote, err := db.UpsertArticle(ctx, a)
		if err != nil {
			return stats, err
		}
		if wrote {
			stats.written++
		} else {
			stats.unchanged++
		}
		slugs = append(slugs, a.Slug)
	}

	if prune {
		removed, err := db.DeleteMissing(ctx, slugs)
		if err != nil {
			return stats, err
		}
		stats.removed = removed
	}
	return stats, nil
}

// importFeeds imports every feed in turn. Slugs already taken by an earlier
// feed are skipped.
func importFeeds(ctx context.Context, cfg *config.Config, feeds []string, logger *slog.Logger) ([]model.Article, error) {
	client, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	importer := content.NewFeedImporter(
		content.WithFeedHTTPClient(client),
		content.WithFeedUserAgent(cfg.UserAgent),
		content.WithFeedLogger(logger),
	)

	var articles []model.Article
	seen := make(map[string]bool)
	for _, feedURL := range feeds {
		items, err := importer.Import(ctx, feedURL)
		if err != nil {
			return nil, err
		}
		for _, a := range items {
			if seen[a.Slug] {
				logger.Warn("duplicate slug across feeds", "slug", a.Slug, "feed", feedURL)
				continue
			}
			seen[a.Slug] = true
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// newHTTPClient returns the client for outgoing requests: direct, or through
// the configured SOCKS5 proxy.
func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	if cfg.ProxyAddress == "" {
		return &http.Client{Timeout: cfg.Timeout}, nil
	}

	var auth *source.ProxyAuth
	if cfg.ProxyUser != "" {
		auth = &source.ProxyAuth{User: cfg.ProxyUser, Password: cfg.ProxyPassword}
	}
	client, err := source.NewProxyClient(cfg.ProxyAddress, auth, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy client: %w", err)
	}
	return client, nil
}
