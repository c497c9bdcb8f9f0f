// Package content turns authored material into post store articles.
//
// Two inputs are supported: a directory of markdown files with YAML front
// matter, and an RSS or Atom feed. Both produce model.Article values that
// the database package persists and the server exposes as JSON datasets.
//
// # Markdown articles
//
// Each article starts with a front matter block:
//
//	---
//	title: Go Mutex Patterns
//	date: 2024-03-01
//	tags: [go, concurrency]
//	categories: [Patterns]
//	---
//
//	Body in markdown.
//
// The body is rendered with goldmark (GitHub flavored markdown). When the
// front matter has no description, the first characters of the rendered
// body text are used instead. Articles marked draft are skipped.
package content
