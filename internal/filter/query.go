package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/postfilter/internal/model"
)

// Query parameter names understood by ParseQuery.
const (
	ParamTag      = "tag"
	ParamCategory = "category"
	ParamSearch   = "q"
)

// Query describes what a Filter selects.
type Query struct {
	// Kind is the grouping selected by the URL, or model.GroupNone.
	Kind model.GroupKind

	// Value is the raw query parameter value for Kind.
	Value string

	// Text is the free-text search input. When it is blank the URL
	// selection applies.
	Text string
}

// ParseQuery builds a Query from URL query parameters.
// "tag" takes precedence over "category" when both are present. The
// presence of the key selects the grouping even when its value is empty.
func ParseQuery(values url.Values) Query {
	var q Query
	switch {
	case values.Has(ParamTag):
		q.Kind = model.GroupTag
		q.Value = values.Get(ParamTag)
	case values.Has(ParamCategory):
		q.Kind = model.GroupCategory
		q.Value = values.Get(ParamCategory)
	}
	q.Text = values.Get(ParamSearch)
	return q
}

// WithText returns a copy of q searching for text.
func (q Query) WithText(text string) Query {
	q.Text = text
	return q
}

// IsSearch reports whether the free-text path applies.
func (q Query) IsSearch() bool {
	return strings.TrimSpace(q.Text) != ""
}

// IsGrouped reports whether the grouped path applies.
func (q Query) IsGrouped() bool {
	return !q.IsSearch() && q.Kind != model.GroupNone
}

// Values encodes q back into URL query parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Kind != model.GroupNone {
		values.Set(string(q.Kind), q.Value)
	}
	if q.IsSearch() {
		values.Set(ParamSearch, q.Text)
	}
	return values
}

// Describe summarizes the query for headings and logs.
func (q Query) Describe() string {
	switch {
	case q.IsSearch():
		return fmt.Sprintf("search %q", strings.TrimSpace(q.Text))
	case q.IsGrouped():
		return fmt.Sprintf("%s %q", q.Kind, q.Value)
	default:
		return "all posts"
	}
}
