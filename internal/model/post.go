package model

import "slices"

// Post is a single article record displayed in a listing.
// Posts are treated as immutable once loaded: the dataset that contains them
// owns them and nothing in the rendering path mutates them.
type Post struct {
	// Title is the post title shown as the link text.
	Title string `json:"title"`

	// URL is the link target of the post.
	URL string `json:"url"`

	// Description is a short summary shown below the title.
	Description string `json:"description"`

	// Date is a display-only date label. It is never parsed.
	Date string `json:"date"`

	// Tags are the free-form labels attached to the post.
	Tags []string `json:"tags"`

	// Image is an optional cover image URL.
	Image string `json:"image,omitempty"`

	// Target is an optional link target attribute (e.g., "_blank").
	Target string `json:"target,omitempty"`

	// Categories are the categories the post belongs to.
	// They are only used to build the category grouping.
	Categories []string `json:"categories,omitempty"`
}

// HasTag reports whether the post carries the given tag (exact match).
func (p Post) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// HasCategory reports whether the post belongs to the given category (exact match).
func (p Post) HasCategory(category string) bool {
	return slices.Contains(p.Categories, category)
}

// FlatDataset is the ungrouped list of all posts, used for free-text search.
type FlatDataset []Post
