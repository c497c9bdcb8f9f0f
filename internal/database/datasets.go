package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/source"
)

// Posts returns the flat dataset, newest first. Posts sharing a date are
// ordered by slug.
func (pdb *PostDB) Posts(ctx context.Context) (model.FlatDataset, error) {
	query := `
	SELECT slug, title, url, description, date, image, target
	FROM posts
	ORDER BY date DESC, slug ASC
	`

	rows, err := pdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var slugs []string
	posts := model.FlatDataset{}
	for rows.Next() {
		var slug string
		var p model.Post
		if err := rows.Scan(&slug, &p.Title, &p.URL, &p.Description, &p.Date, &p.Image, &p.Target); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		slugs = append(slugs, slug)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	// Close before the follow-up queries; the pool holds a single connection.
	_ = rows.Close()

	tags, err := pdb.names(ctx, "post_tags")
	if err != nil {
		return nil, err
	}
	categories, err := pdb.names(ctx, "post_categories")
	if err != nil {
		return nil, err
	}

	for i, slug := range slugs {
		posts[i].Tags = orEmpty(tags[slug])
		posts[i].Categories = categories[slug]
	}
	return posts, nil
}

// Groups returns the tag or category dataset. Groups are ordered by name;
// posts inside a group keep the order of Posts.
func (pdb *PostDB) Groups(ctx context.Context, kind model.GroupKind) (model.GroupedDataset, error) {
	var namesOf func(model.Post) []string
	switch kind {
	case model.GroupTag:
		namesOf = func(p model.Post) []string { return p.Tags }
	case model.GroupCategory:
		namesOf = func(p model.Post) []string { return p.Categories }
	default:
		return nil, source.ErrNoGroupKind
	}

	posts, err := pdb.Posts(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string][]model.Post)
	for _, p := range posts {
		for _, name := range namesOf(p) {
			byName[name] = append(byName[name], p)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	groups := make(model.GroupedDataset, 0, len(names))
	for _, name := range names {
		groups = append(groups, model.Group{Name: name, Posts: byName[name]})
	}
	return groups, nil
}
