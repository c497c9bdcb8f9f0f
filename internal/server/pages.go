package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/nao1215/postfilter/internal/database"
	"github.com/nao1215/postfilter/internal/filter"
	"github.com/nao1215/postfilter/internal/model"
)

const htmlContentType = "text/html; charset=utf-8"

// pageData is the view model of the layout template.
type pageData struct {
	SiteTitle string
	Title     string
	Heading   string

	// Search is the text shown in the search box.
	Search string
	// Kind and Value carry the URL selection through the search form.
	Kind  string
	Value string

	// Listing is the posts container content, set on listing pages.
	Listing template.HTML
	// Count is the number of listed posts.
	Count int

	// Article is set on article pages.
	Article *model.Article
}

func (s *Server) newPage(container filter.Container) *filter.Page {
	return filter.NewPage(s.listing, container,
		filter.WithTimeout(s.timeout),
		filter.WithPageLogger(s.logger),
	)
}

// handleIndex renders the page-load path.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var container filter.Buffer
	result := s.newPage(&container).Load(r.Context(), r.URL.Query())
	s.renderListing(w, r, result, container.Content())
}

// handleSearch renders the search path. The URL selection of the page the
// search was submitted from travels as tag or category parameters.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var container filter.Buffer
	page := s.newPage(&container)

	values := r.URL.Query()
	q := page.Select(values)
	result := page.Search(r.Context(), q.Text)
	s.renderListing(w, r, result, container.Content())
}

func (s *Server) renderListing(w http.ResponseWriter, r *http.Request, result filter.Result, listing template.HTML) {
	status := http.StatusOK
	if result.Outcome == filter.OutcomeError {
		status = http.StatusBadGateway
	}

	title := "Posts"
	heading := ""
	switch {
	case result.Query.IsSearch():
		title = "Search: " + result.Query.Text
		heading = "Results for " + quoted(result.Query.Text)
	case result.Query.IsGrouped():
		title = result.Query.Kind.String() + ": " + result.Query.Value
		heading = "Posts in " + result.Query.Kind.String() + " " + quoted(result.Query.Value)
	}

	s.render(w, r, status, pageData{
		Title:   title,
		Heading: heading,
		Search:  result.Query.Text,
		Kind:    kindParam(result.Query),
		Value:   result.Query.Value,
		Listing: listing,
		Count:   len(result.Posts),
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	article, err := s.store.Article(r.Context(), slug)
	if errors.Is(err, database.ErrNotFound) {
		s.render(w, r, http.StatusNotFound, pageData{
			Title:   "Not found",
			Heading: "Post not found",
			Listing: template.HTML(`<p class="posts-empty">No post at this address.</p>`),
		})
		return
	}
	if err != nil {
		s.logger.Error("failed to load article", "slug", slug, "error", err)
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	s.render(w, r, http.StatusOK, pageData{
		Title:   article.Post.Title,
		Article: &article,
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	data.SiteTitle = s.siteTitle

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	writeBody(w, r, status, htmlContentType, buf.Bytes())
}

// kindParam returns the query parameter carrying the URL selection, if any.
func kindParam(q filter.Query) string {
	if q.Kind == model.GroupNone {
		return ""
	}
	return string(q.Kind)
}

func quoted(s string) string {
	return "\u201c" + s + "\u201d"
}

// groupLink returns the listing URL of one tag or category.
func groupLink(kind model.GroupKind, name string) string {
	return "/?" + url.Values{string(kind): {name}}.Encode()
}

var templateFuncs = template.FuncMap{
	"tagURL": func(name string) string {
		return groupLink(model.GroupTag, name)
	},
	"categoryURL": func(name string) string {
		return groupLink(model.GroupCategory, name)
	},
}
