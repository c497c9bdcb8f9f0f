package model

import "fmt"

// GroupKind identifies how a grouped dataset was built.
type GroupKind string

const (
	// GroupNone means no grouping is active.
	GroupNone GroupKind = ""

	// GroupTag groups posts by tag. It is selected by the "tag" query parameter.
	GroupTag GroupKind = "tag"

	// GroupCategory groups posts by category. It is selected by the "category"
	// query parameter.
	GroupCategory GroupKind = "category"
)

// Endpoint paths of the JSON datasets.
const (
	PostsEndpoint      = "/api/posts.json"
	TagsEndpoint       = "/api/tags.json"
	CategoriesEndpoint = "/api/categories.json"
)

// ParseGroupKind converts a query parameter name into a GroupKind.
func ParseGroupKind(s string) (GroupKind, error) {
	switch GroupKind(s) {
	case GroupTag, GroupCategory:
		return GroupKind(s), nil
	default:
		return GroupNone, fmt.Errorf("unknown group kind %q", s)
	}
}

// String returns the query parameter name of the kind.
func (k GroupKind) String() string {
	if k == GroupNone {
		return "none"
	}
	return string(k)
}

// Endpoint returns the dataset path that serves groups of this kind.
// It returns an empty string for GroupNone.
func (k GroupKind) Endpoint() string {
	switch k {
	case GroupTag:
		return TagsEndpoint
	case GroupCategory:
		return CategoriesEndpoint
	default:
		return ""
	}
}

// Group is a named bucket of posts.
type Group struct {
	// Name is matched exactly against the query parameter value.
	Name string `json:"name"`

	// Posts are the posts in this group, in dataset order.
	Posts []Post `json:"posts"`
}

// GroupedDataset is the sequence of groups served for the tag or category views.
type GroupedDataset []Group

// Names returns the group names in dataset order.
func (ds GroupedDataset) Names() []string {
	names := make([]string, 0, len(ds))
	for _, g := range ds {
		names = append(names, g.Name)
	}
	return names
}
