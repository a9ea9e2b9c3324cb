package result

import (
	"math"

	"github.com/houston-ecosystem/ecomap/internal/domain/search/document"
)

// TagOnlyScore is the constant score of hits returned without query text.
const TagOnlyScore = 1.0

// Hit is a single search hit.
type Hit struct {
	doc   document.Document
	score float64
}

// New creates a search hit for doc with the given score.
func New(doc document.Document, score float64) Hit {
	return Hit{doc: doc, score: score}
}

// Document returns the matched document.
func (h *Hit) Document() *document.Document { return &h.doc }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Round4 rounds a score to 4 decimal places.
func Round4(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}

// Page is one page of ranked hits.
type Page struct {
	items []Hit
	total int
	page  int
	limit int
}

// NewPage creates a result page.
func NewPage(items []Hit, total, page, limit int) Page {
	if items == nil {
		items = []Hit{}
	}
	return Page{items: items, total: total, page: page, limit: limit}
}

// Empty returns the result of a request that asked for nothing.
func Empty(limit int) Page {
	return NewPage(nil, 0, 1, limit)
}

// Items returns the hits on this page.
func (p *Page) Items() []Hit { return p.items }

// Total returns the number of ranked hits across all pages.
func (p *Page) Total() int { return p.total }

// Page returns the 1-based page number.
func (p *Page) Page() int { return p.page }

// Limit returns the page size.
func (p *Page) Limit() int { return p.limit }
