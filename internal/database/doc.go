// Package database provides the SQLite post store.
//
// PostDB keeps indexed articles in three tables:
//   - posts: one row per article, keyed by slug, with the rendered body and
//     a content hash used to skip unchanged articles on re-index
//   - post_tags: tags of each post, in authored order
//   - post_categories: categories of each post, in authored order
//
// PostDB implements source.Source, so the server and the filter command read
// the tag, category and flat datasets straight from the store.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver. The store
// is a single file in the data directory and runs in WAL mode.
package database
