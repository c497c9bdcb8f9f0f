// Package model defines the data structures shared by postfilter packages.
//
// This package contains the following main types:
//   - Post: A single article record as it appears in a listing
//   - Group: A named bucket of posts (one tag or one category)
//   - GroupedDataset and FlatDataset: The two JSON dataset shapes
//   - Article: An indexed article with its rendered body, used for storage
//
// Models live in their own package because the filter, source, database and
// server packages all exchange them, and keeping them here avoids import
// cycles.
//
// Post, Group and the datasets serialize to the JSON documents served at
// /api/posts.json, /api/tags.json and /api/categories.json.
package model
