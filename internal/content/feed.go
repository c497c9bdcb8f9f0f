package content

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"
	"github.com/nao1215/postfilter/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FeedImporter converts RSS and Atom feed items into articles.
type FeedImporter struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// FeedOption configures a FeedImporter.
type FeedOption func(*FeedImporter)

// WithFeedHTTPClient sets the HTTP client used to download feeds.
func WithFeedHTTPClient(client *http.Client) FeedOption {
	return func(f *FeedImporter) {
		f.parser.Client = client
	}
}

// WithFeedUserAgent sets the User-Agent header sent with feed requests.
func WithFeedUserAgent(ua string) FeedOption {
	return func(f *FeedImporter) {
		f.parser.UserAgent = ua
	}
}

// WithFeedLogger sets the logger.
func WithFeedLogger(logger *slog.Logger) FeedOption {
	return func(f *FeedImporter) {
		f.logger = logger
	}
}

// NewFeedImporter creates a FeedImporter.
func NewFeedImporter(opts ...FeedOption) *FeedImporter {
	f := &FeedImporter{parser: gofeed.NewParser()}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Import downloads the feed at feedURL and returns one article per item.
// Item categories become tags and the feed title becomes the category.
// Items link to the original page, opened in a new tab.
func (f *FeedImporter) Import(ctx context.Context, feedURL string) ([]model.Article, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFeed, feedURL, err)
	}

	f.logger.Info("importing feed",
		"feed", feed.Title,
		"items", len(feed.Items),
	)

	articles := make([]model.Article, 0, len(feed.Items))
	seen := make(map[string]bool, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}

		slug := itemSlug(item)
		if slug == "" || seen[slug] {
			f.logger.Debug("skipping feed item", "title", item.Title, "slug", slug)
			continue
		}
		seen[slug] = true

		articles = append(articles, itemArticle(feed, item, slug, feedURL))
	}
	return articles, nil
}

func itemArticle(feed *gofeed.Feed, item *gofeed.Item, slug, feedURL string) model.Article {
	var date string
	if t := itemTime(item); t != nil {
		date = t.UTC().Format(time.DateOnly)
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	description := Excerpt(item.Description, ExcerptLength)
	if description == "" {
		description = Excerpt(content, ExcerptLength)
	}

	var image string
	if item.Image != nil {
		image = item.Image.URL
	}

	var categories []string
	if feed.Title != "" {
		categories = []string{feed.Title}
	}

	link := item.Link
	target := "_blank"
	if link == "" {
		link = model.PostURL(slug)
		target = ""
	}

	// Feed HTML is untrusted; the article page shows its text only.
	body := "<p>" + template.HTMLEscapeString(Excerpt(content, len(content))) + "</p>"

	return model.Article{
		Slug: slug,
		Post: model.Post{
			Title:       strings.TrimSpace(item.Title),
			URL:         link,
			Description: description,
			Date:        date,
			Tags:        nonEmpty(item.Categories),
			Image:       image,
			Target:      target,
			Categories:  nonEmpty(categories),
		},
		Body:   template.HTML(body), //nolint:gosec // escaped above
		Hash:   Hash([]byte(item.Title + "\x00" + link + "\x00" + date + "\x00" + content)),
		Source: feedURL,
	}
}

func itemTime(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

// itemSlug derives a slug from the item link, falling back to its title.
func itemSlug(item *gofeed.Item) string {
	if u, err := url.Parse(item.Link); err == nil && u.Path != "" && u.Path != "/" {
		base := strings.TrimSuffix(path.Base(strings.TrimSuffix(u.Path, "/")), path.Ext(u.Path))
		if s := Slugify(base); s != "" {
			return s
		}
	}
	return Slugify(item.Title)
}

// Slugify lowercases s and replaces every run of characters other than
// letters and digits with a single hyphen.
func Slugify(s string) string {
	s = cases.Lower(language.Und).String(s)

	var sb strings.Builder
	pendingHyphen := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return sb.String()
}
