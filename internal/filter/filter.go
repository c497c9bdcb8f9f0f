package filter

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/nao1215/postfilter/internal/model"
	"github.com/nao1215/postfilter/internal/render"
	"github.com/nao1215/postfilter/internal/source"
)

// State is the lifecycle state of a Filter.
type State int

const (
	// StateIdle means the filter was created and nothing was fetched yet.
	StateIdle State = iota

	// StateLoaded means the dataset was fetched and is ready to render.
	StateLoaded

	// StateRendered means the result was produced. It is terminal.
	StateRendered

	// StateError means the fetch failed. It is terminal.
	StateError
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StateRendered:
		return "rendered"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome classifies a rendered result.
type Outcome int

const (
	// OutcomeMatched means a group or search matched and its posts are shown.
	OutcomeMatched Outcome = iota

	// OutcomeNoGroup means no group has the requested name. Posts is empty.
	OutcomeNoGroup

	// OutcomeNoMatch means the free-text search matched nothing.
	OutcomeNoMatch

	// OutcomeAll means no filter was active and every post is shown.
	OutcomeAll

	// OutcomeError means the dataset could not be loaded.
	OutcomeError
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoGroup:
		return "no-group"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeAll:
		return "all"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is what a Filter renders.
type Result struct {
	// Query is the query the result was computed for.
	Query Query

	// Outcome classifies the result.
	Outcome Outcome

	// Posts are the selected posts in dataset order. Never nil.
	Posts []model.Post

	// HTML is the container content: the post cards, or an empty or error
	// state message.
	HTML template.HTML

	// Err is the fetch error when Outcome is OutcomeError.
	Err error

	// Stale is set by Page when a newer request superseded this one and the
	// result was not written to the container.
	Stale bool
}

// Filter resolves and renders one listing. A Filter is used once; a new
// load or search creates a new Filter.
type Filter struct {
	source source.Source
	query  Query
	logger *slog.Logger

	state   State
	grouped model.GroupedDataset
	flat    model.FlatDataset
	result  Result
	err     error
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates an idle Filter for q reading from src.
func New(src source.Source, q Query, opts ...Option) *Filter {
	f := &Filter{
		source: src,
		query:  q,
		state:  StateIdle,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current state.
func (f *Filter) State() State {
	return f.state
}

// Query returns the query the filter was created for.
func (f *Filter) Query() Query {
	return f.query
}

// Err returns the fetch error once the filter is in StateError.
func (f *Filter) Err() error {
	return f.err
}

// Fetch loads the dataset the query needs: the grouped dataset of the
// query's kind, or the flat dataset for searches and unfiltered listings.
// It moves the filter to StateLoaded, or to StateError when the source fails.
func (f *Filter) Fetch(ctx context.Context) error {
	if f.state != StateIdle {
		return fmt.Errorf("%w: fetch called in state %s", ErrInvalidState, f.state)
	}

	var err error
	if f.query.IsGrouped() {
		f.grouped, err = f.source.Groups(ctx, f.query.Kind)
	} else {
		f.flat, err = f.source.Posts(ctx)
	}

	if err != nil {
		f.state = StateError
		f.err = err
		f.logger.Warn("failed to load posts",
			"kind", f.query.Kind.String(),
			"value", f.query.Value,
			"error", err,
		)
		return err
	}

	f.state = StateLoaded
	return nil
}

// Render selects the posts for the query and renders them. It may be called
// again once rendered and returns the same result.
func (f *Filter) Render() (Result, error) {
	switch f.state {
	case StateRendered:
		return f.result, nil
	case StateLoaded:
	default:
		return Result{}, fmt.Errorf("%w: render called in state %s", ErrInvalidState, f.state)
	}

	result := Result{Query: f.query}
	switch {
	case f.query.IsSearch():
		result.Posts = Search(f.flat, f.query.Text)
		result.Outcome = OutcomeMatched
		if len(result.Posts) == 0 {
			result.Outcome = OutcomeNoMatch
		}
	case f.query.IsGrouped():
		posts, ok := FindGroup(f.grouped, f.query.Value)
		result.Posts = posts
		result.Outcome = OutcomeMatched
		if !ok {
			result.Outcome = OutcomeNoGroup
		}
	default:
		result.Posts = Search(f.flat, "")
		result.Outcome = OutcomeAll
	}

	result.HTML = renderResult(result)

	f.logger.Debug("rendered posts",
		"outcome", result.Outcome.String(),
		"count", len(result.Posts),
	)

	f.result = result
	f.state = StateRendered
	return result, nil
}

// Run fetches and renders in one step. A failed fetch yields a result with
// OutcomeError and an error message as its HTML, so callers always have
// something to show.
func (f *Filter) Run(ctx context.Context) Result {
	if err := f.Fetch(ctx); err != nil {
		return ErrorResult(f.query, err)
	}
	result, err := f.Render()
	if err != nil {
		return ErrorResult(f.query, err)
	}
	return result
}

const errorMessage = "Posts could not be loaded. Please try again later."

// ErrorResult builds the result shown when posts could not be loaded.
func ErrorResult(q Query, err error) Result {
	return Result{
		Query:   q,
		Outcome: OutcomeError,
		Posts:   []model.Post{},
		HTML:    render.ErrorState(errorMessage),
		Err:     err,
	}
}

// renderResult produces the container content for a result.
func renderResult(r Result) template.HTML {
	if len(r.Posts) > 0 {
		return render.RenderAll(r.Posts)
	}
	return render.EmptyState(r.Message())
}

// Message describes a result without posts: the error or empty state text.
// It is empty when the result has posts.
func (r Result) Message() string {
	if len(r.Posts) > 0 {
		return ""
	}
	switch r.Outcome {
	case OutcomeError:
		return errorMessage
	case OutcomeNoGroup:
		return fmt.Sprintf("No posts found for %s %q.", r.Query.Kind, r.Query.Value)
	case OutcomeNoMatch:
		return fmt.Sprintf("No posts match %q.", r.Query.Text)
	default:
		return "No posts yet."
	}
}
