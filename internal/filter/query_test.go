package filter

import (
	"net/url"
	"testing"

	"github.com/nao1215/postfilter/internal/model"
)

// TestParseQuery tests how URL parameters select the filter path.
func TestParseQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		rawQuery    string
		want        Query
		wantGrouped bool
		wantSearch  bool
	}{
		{
			name:        "tag",
			rawQuery:    "tag=go",
			want:        Query{Kind: model.GroupTag, Value: "go"},
			wantGrouped: true,
		},
		{
			name:        "category",
			rawQuery:    "category=Patterns",
			want:        Query{Kind: model.GroupCategory, Value: "Patterns"},
			wantGrouped: true,
		},
		{
			name:        "tag takes precedence over category",
			rawQuery:    "category=Patterns&tag=go",
			want:        Query{Kind: model.GroupTag, Value: "go"},
			wantGrouped: true,
		},
		{
			name:        "empty tag value still selects the tag view",
			rawQuery:    "tag=",
			want:        Query{Kind: model.GroupTag, Value: ""},
			wantGrouped: true,
		},
		{
			name:       "search text overrides grouping",
			rawQuery:   "tag=go&q=mutex",
			want:       Query{Kind: model.GroupTag, Value: "go", Text: "mutex"},
			wantSearch: true,
		},
		{
			name:     "blank search text is not a search",
			rawQuery: "q=%20%20",
			want:     Query{Text: "  "},
		},
		{
			name:     "no recognized keys",
			rawQuery: "author=me",
			want:     Query{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}

			got := ParseQuery(values)
			if got != tt.want {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.rawQuery, got, tt.want)
			}
			if got.IsGrouped() != tt.wantGrouped {
				t.Errorf("IsGrouped() = %v, want %v", got.IsGrouped(), tt.wantGrouped)
			}
			if got.IsSearch() != tt.wantSearch {
				t.Errorf("IsSearch() = %v, want %v", got.IsSearch(), tt.wantSearch)
			}
		})
	}
}

// TestQueryValues tests that a query round-trips through URL parameters.
func TestQueryValues(t *testing.T) {
	t.Parallel()

	q := Query{Kind: model.GroupCategory, Value: "Go Patterns", Text: "mutex"}
	if got := ParseQuery(q.Values()); got != q {
		t.Errorf("round trip = %+v, want %+v", got, q)
	}

	if enc := (Query{}).Values().Encode(); enc != "" {
		t.Errorf("expected empty encoding, got %q", enc)
	}
}

func TestQueryDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		q    Query
		want string
	}{
		{q: Query{}, want: "all posts"},
		{q: Query{Kind: model.GroupTag, Value: "go"}, want: `tag "go"`},
		{q: Query{Kind: model.GroupTag, Value: "go", Text: " mutex "}, want: `search "mutex"`},
		{q: Query{Kind: model.GroupCategory, Value: "Patterns", Text: "  "}, want: `category "Patterns"`},
	}
	for _, tt := range tests {
		if got := tt.q.Describe(); got != tt.want {
			t.Errorf("Describe(%+v) = %q, want %q", tt.q, got, tt.want)
		}
	}
}
