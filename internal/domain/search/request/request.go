package request

import (
	"math"

	"github.com/houston-ecosystem/ecomap/internal/domain/search/filter"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/tokenize"
)

// Pagination limits.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MinLimit     = 1
	MaxLimit     = 50
)

// Request is a normalized search query. Out-of-range pagination is clamped,
// never rejected.
type Request struct {
	query  string
	tokens []string
	tags   filter.Tags
	page   int
	limit  int
}

// Option adjusts pagination before clamping.
type Option func(*Request)

// WithPage sets the 1-based page number. Values below 1 become 1; values
// whose offset would overflow int are capped.
func WithPage(page int) Option {
	return func(r *Request) { r.page = page }
}

// WithLimit sets the page size. It is clamped to [MinLimit, MaxLimit].
func WithLimit(limit int) Option {
	return func(r *Request) { r.limit = limit }
}

// New builds a Request. Defaults: page=1, limit=20.
func New(query string, tags []string, opts ...Option) Request {
	r := Request{
		query:  query,
		tokens: tokenize.Tokenize(query),
		tags:   filter.NewTags(tags),
		page:   DefaultPage,
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.page < 1 {
		r.page = 1
	}
	if r.limit < MinLimit {
		r.limit = MinLimit
	}
	if r.limit > MaxLimit {
		r.limit = MaxLimit
	}
	if maxPage := math.MaxInt/r.limit + 1; r.page > maxPage {
		r.page = maxPage
	}
	return r
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Tokens returns the tokenized query.
func (r *Request) Tokens() []string { return r.tokens }

// Tags returns the tag filter.
func (r *Request) Tags() filter.Tags { return r.tags }

// Page returns the clamped page number.
func (r *Request) Page() int { return r.page }

// Limit returns the clamped page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the index of the first item of the page.
func (r *Request) Offset() int { return (r.page - 1) * r.limit }
