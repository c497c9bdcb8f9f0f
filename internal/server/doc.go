// Package server exposes the post store over HTTP.
//
// Routes:
//
//	GET /api/posts.json       flat dataset
//	GET /api/tags.json        posts grouped by tag
//	GET /api/categories.json  posts grouped by category
//	GET /                     listing page; ?tag=, ?category= and ?q= select posts
//	GET /search?q=            listing page driven by the search box
//	GET /posts/{slug}         article page
//	GET /static/              stylesheet and other assets
//
// Listing pages render the posts container through filter.Page, so the server
// and the filter command share one selection logic. Every successful response
// carries an ETag; a matching If-None-Match yields 304 Not Modified.
package server
