// Package render converts posts into HTML card fragments.
//
// Rendering is pure: the same Post value always yields the same fragment and
// nothing here performs I/O. Escaping is contextual through html/template, so
// titles, descriptions and URLs coming from a dataset are safe to embed.
package render

import (
	"bytes"
	"html/template"

	"github.com/nao1215/postfilter/internal/model"
)

// cardTemplate is the markup of a single post card.
// The cover image is omitted when the post has none; every other field is
// always emitted and degrades to an empty value.
const cardTemplate = `<article class="post-card">` +
	`<a class="post-link" href="{{.URL}}" target="{{.Target}}">` +
	`{{if .Image}}<img class="post-image" src="{{.Image}}" alt="">{{end}}` +
	`<h3 class="post-title">{{.Title}}</h3></a>` +
	`<time class="post-date">{{.Date}}</time>` +
	`<p class="post-description">{{.Description}}</p>` +
	`</article>`

const stateTemplate = `<p class="{{.Class}}">{{.Message}}</p>`

var (
	card  = template.Must(template.New("card").Parse(cardTemplate))
	state = template.Must(template.New("state").Parse(stateTemplate))
)

// Render returns the card fragment for one post.
//
// The post URL becomes the link target after html/template URL
// normalization: bytes outside the URL character set are percent-encoded,
// so "/posts/café" is emitted as "/posts/caf%c3%a9". Existing escapes are
// kept as they are. Unsafe schemes are replaced by "#ZgotmplZ".
func Render(post model.Post) template.HTML {
	var buf bytes.Buffer
	if err := card.Execute(&buf, post); err != nil {
		// The template only reads string fields, so execution cannot fail
		// for a well-formed Post.
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}

// RenderAll concatenates the cards of posts in input order.
func RenderAll(posts []model.Post) template.HTML {
	var buf bytes.Buffer
	for _, p := range posts {
		buf.WriteString(string(Render(p)))
	}
	return template.HTML(buf.String()) //nolint:gosec // concatenation of escaped fragments
}

// EmptyState returns the fragment shown when a filter matched no posts.
func EmptyState(message string) template.HTML {
	return renderState("posts-empty", message)
}

// ErrorState returns the fragment shown when the dataset could not be loaded.
func ErrorState(message string) template.HTML {
	return renderState("posts-error", message)
}

func renderState(class, message string) template.HTML {
	var buf bytes.Buffer
	data := struct{ Class, Message string }{Class: class, Message: message}
	if err := state.Execute(&buf, data); err != nil {
		return ""
	}
	return template.HTML(buf.String()) //nolint:gosec // produced by html/template
}
