// Package source loads the post datasets the content filter works on.
//
// A Source returns either the grouped dataset for one grouping kind (the
// documents served at /api/tags.json and /api/categories.json) or the flat
// dataset of every post (/api/posts.json). HTTPSource reads them from a
// running site; the database package provides a local implementation backed
// by the post store.
//
// Failures are reported as wrapped sentinel errors so that callers can tell a
// transport failure (ErrFetch) from an unreadable body (ErrMalformed) with
// errors.Is.
package source
