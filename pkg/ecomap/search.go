package ecomap

import (
	"context"
	"fmt"
	"time"

	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
)

// SearchOption refines a search.
type SearchOption func(*searchParams)

type searchParams struct {
	tags []string
	opts []request.Option
}

// WithTags keeps only entities whose tags contain every term
// (case-insensitive substring).
func WithTags(tags ...string) SearchOption {
	return func(p *searchParams) { p.tags = append(p.tags, tags...) }
}

// WithPage selects a 1-based result page.
func WithPage(page int) SearchOption {
	return func(p *searchParams) { p.opts = append(p.opts, request.WithPage(page)) }
}

// WithLimit sets the page size, clamped to [1, 50]. Default: 20.
func WithLimit(limit int) SearchOption {
	return func(p *searchParams) { p.opts = append(p.opts, request.WithLimit(limit)) }
}

// Search ranks the directory against query. With an empty query, matching
// entities are ordered by name; with neither query nor tags, the result is empty.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var p searchParams
	for _, o := range opts {
		o(&p)
	}
	req := request.New(query, p.tags, p.opts...)

	page, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return searchResultFromPage(&page), nil
}

func searchResultFromPage(p *result.Page) SearchResult {
	hits := make([]Hit, 0, len(p.Items()))
	for _, h := range p.Items() {
		doc := h.Document()
		var loc *Location
		if l := doc.Location(); l != nil {
			loc = &Location{Lat: l.Lat, Lng: l.Lng, Address: l.Address}
		}
		hits = append(hits, Hit{
			ID:          doc.ID(),
			Kind:        Kind(doc.Kind()),
			Name:        doc.Name(),
			Description: doc.Description(),
			Website:     doc.Website(),
			Tags:        doc.Tags(),
			Stage:       doc.Stage(),
			Category:    doc.Category(),
			Location:    loc,
			Score:       h.Score(),
		})
	}
	return SearchResult{
		Hits:  hits,
		Total: p.Total(),
		Page:  p.Page(),
		Limit: p.Limit(),
	}
}
