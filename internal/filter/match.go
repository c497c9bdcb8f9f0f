package filter

import (
	"strings"

	"github.com/nao1215/postfilter/internal/model"
	"golang.org/x/text/cases"
)

// FindGroup returns the posts of the group whose name equals name.
// The comparison is exact and case-sensitive. The boolean is false when no
// group matches, in which case the returned slice is empty, never nil.
func FindGroup(ds model.GroupedDataset, name string) ([]model.Post, bool) {
	for _, g := range ds {
		if g.Name == name {
			if g.Posts == nil {
				return []model.Post{}, true
			}
			return g.Posts, true
		}
	}
	return []model.Post{}, false
}

// Search returns the posts matching text, in dataset order.
// A post matches when the text is a case-insensitive substring of its title,
// its description, or any of its tags. Blank text matches every post.
func Search(ds model.FlatDataset, text string) []model.Post {
	// cases.Caser keeps state, so each call gets its own.
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(text))

	matched := make([]model.Post, 0, len(ds))
	for _, p := range ds {
		if needle == "" || matches(fold, p, needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// matches reports whether the folded needle occurs in p.
func matches(fold cases.Caser, p model.Post, needle string) bool {
	if strings.Contains(fold.String(p.Title), needle) {
		return true
	}
	if strings.Contains(fold.String(p.Description), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(fold.String(tag), needle) {
			return true
		}
	}
	return false
}
