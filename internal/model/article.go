package model

import "html/template"

// Article is an indexed blog article.
// It carries everything the post store needs: the listing record, the
// rendered body and a digest used to detect changes between index runs.
type Article struct {
	// Slug identifies the article and forms its URL (/posts/<slug>).
	Slug string `json:"slug"`

	// Post is the listing record of the article.
	Post Post `json:"post"`

	// Body is the article body rendered to HTML.
	Body template.HTML `json:"-"`

	// Hash is the hex-encoded SHA3-256 digest of the source document.
	Hash string `json:"hash"`

	// Source is where the article came from (a file path or a feed URL).
	Source string `json:"source,omitempty"`
}

// PostURL returns the canonical listing URL of a slug.
func PostURL(slug string) string {
	return "/posts/" + slug
}
