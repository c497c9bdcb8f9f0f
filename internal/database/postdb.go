package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/source"
)

// FileName is the name of the database file inside the database directory.
const FileName = "postfilter.db"

// PostDB provides SQLite-based storage for indexed articles.
type PostDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures PostDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a PostDB in dbDir.
func Open(dbDir string, opts Options) (*PostDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &PostDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Close closes the database connection.
func (pdb *PostDB) Close() error {
	return pdb.db.Close()
}

// Path returns the database file path.
func (pdb *PostDB) Path() string {
	return pdb.dbPath
}

func (pdb *PostDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		slug TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		hash TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_posts_date ON posts(date);

	CREATE TABLE IF NOT EXISTS post_tags (
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (slug, name)
	);

	CREATE INDEX IF NOT EXISTS idx_post_tags_name ON post_tags(name);

	CREATE TABLE IF NOT EXISTS post_categories (
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (slug, name)
	);

	CREATE INDEX IF NOT EXISTS idx_post_categories_name ON post_categories(name);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// UpsertArticle stores an article, replacing any article with the same slug.
// Articles whose hash matches the stored one are left untouched; the returned
// bool reports whether a write happened.
func (pdb *PostDB) UpsertArticle(ctx context.Context, a model.Article) (bool, error) {
	tx, err := pdb.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var stored string
	err = tx.QueryRowContext(ctx, `SELECT hash FROM posts WHERE slug = ?`, a.Slug).Scan(&stored)
	switch {
	case err == nil && stored == a.Hash:
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("failed to read article hash: %w", err)
	}

	query := `
	INSERT INTO posts (slug, title, url, description, date, image, target, body, hash, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(slug) DO UPDATE SET
		title = excluded.title,
		url = excluded.url,
		description = excluded.description,
		date = excluded.date,
		image = excluded.image,
		target = excluded.target,
		body = excluded.body,
		hash = excluded.hash,
		source = excluded.source,
		updated_at = CURRENT_TIMESTAMP
	`
	p := a.Post
	if _, err := tx.ExecContext(ctx, query,
		a.Slug, p.Title, p.URL, p.Description, p.Date, p.Image, p.Target,
		string(a.Body), a.Hash, a.Source,
	); err != nil {
		return false, fmt.Errorf("failed to upsert article %s: %w", a.Slug, err)
	}

	if err := replaceNames(ctx, tx, "post_tags", a.Slug, p.Tags); err != nil {
		return false, err
	}
	if err := replaceNames(ctx, tx, "post_categories", a.Slug, p.Categories); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit article %s: %w", a.Slug, err)
	}
	return true, nil
}

// replaceNames rewrites the tag or category rows of one post.
// table is one of the two fixed table names, never user input.
func replaceNames(ctx context.Context, tx *sql.Tx, table, slug string, names []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE slug = ?", slug); err != nil {
		return fmt.Errorf("failed to clear %s for %s: %w", table, slug, err)
	}
	for i, name := range names {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+table+" (slug, name, position) VALUES (?, ?, ?)",
			slug, name, i,
		); err != nil {
			return fmt.Errorf("failed to insert %s for %s: %w", table, slug, err)
		}
	}
	return nil
}

// DeleteMissing removes every article whose slug is not in keep and returns
// the number of removed articles.
func (pdb *PostDB) DeleteMissing(ctx context.Context, keep []string) (int, error) {
	slugs, err := pdb.Slugs(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := pdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	removed := 0
	for _, slug := range slugs {
		if slices.Contains(keep, slug) {
			continue
		}
		for _, table := range []string{"post_tags", "post_categories", "posts"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE slug = ?", slug); err != nil {
				return 0, fmt.Errorf("failed to delete %s from %s: %w", slug, table, err)
			}
		}
		removed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit deletions: %w", err)
	}
	return removed, nil
}

// Slugs returns every stored slug in ascending order.
func (pdb *PostDB) Slugs(ctx context.Context) ([]string, error) {
	rows, err := pdb.db.QueryContext(ctx, `SELECT slug FROM posts ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// Article returns the article stored under slug, or ErrNotFound.
func (pdb *PostDB) Article(ctx context.Context, slug string) (model.Article, error) {
	query := `
	SELECT slug, title, url, description, date, image, target, body, hash, source
	FROM posts
	WHERE slug = ?
	`

	var a model.Article
	var body string
	err := pdb.db.QueryRowContext(ctx, query, slug).Scan(
		&a.Slug,
		&a.Post.Title,
		&a.Post.URL,
		&a.Post.Description,
		&a.Post.Date,
		&a.Post.Image,
		&a.Post.Target,
		&body,
		&a.Hash,
		&a.Source,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Article{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return model.Article{}, fmt.Errorf("failed to get article: %w", err)
	}
	a.Body = template.HTML(body) //nolint:gosec // stored bodies come from the indexer

	tags, err := pdb.names(ctx, "post_tags", slug)
	if err != nil {
		return model.Article{}, err
	}
	categories, err := pdb.names(ctx, "post_categories", slug)
	if err != nil {
		return model.Article{}, err
	}
	a.Post.Tags = orEmpty(tags[slug])
	a.Post.Categories = categories[slug]

	return a, nil
}

// Count returns the number of stored articles.
func (pdb *PostDB) Count(ctx context.Context) (int, error) {
	var n int
	if err := pdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}

// names loads tag or category rows keyed by slug, in authored order.
// With no slugs given every row is loaded.
func (pdb *PostDB) names(ctx context.Context, table string, slugs ...string) (map[string][]string, error) {
	query := "SELECT slug, name FROM " + table
	args := make([]any, 0, len(slugs))
	if len(slugs) > 0 {
		query += " WHERE slug IN (?" + strings.Repeat(", ?", len(slugs)-1) + ")"
		for _, s := range slugs {
			args = append(args, s)
		}
	}
	query += " ORDER BY slug, position"

	rows, err := pdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var slug, name string
		if err := rows.Scan(&slug, &name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[slug] = append(out[slug], name)
	}
	return out, rows.Err()
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Ensure PostDB satisfies source.Source.
var _ source.Source = (*PostDB)(nil)
