package content

import "errors"

var (
	// ErrDraft is returned by ParseArticle for articles marked as draft.
	ErrDraft = errors.New("article is a draft")

	// ErrFrontMatter indicates a missing or malformed front matter block.
	ErrFrontMatter = errors.New("invalid front matter")

	// ErrMissingTitle indicates an article without a title.
	ErrMissingTitle = errors.New("article has no title")

	// ErrInvalidDate indicates a date that is not in a supported layout.
	ErrInvalidDate = errors.New("invalid article date")

	// ErrInvalidSlug indicates a slug that cannot form a /posts/<slug> path,
	// such as one containing a slash, a query or fragment marker, or spaces.
	ErrInvalidSlug = errors.New("invalid article slug")

	// ErrDuplicateSlug indicates two articles resolving to the same slug.
	ErrDuplicateSlug = errors.New("duplicate article slug")

	// ErrFeed indicates a feed that could not be fetched or parsed.
	ErrFeed = errors.New("feed import failed")
)
