package search

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/document"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
)

// Service ranks directory entities against free-text and tag queries.
// It holds no index: documents are rebuilt from the source on every call.
type Service struct {
	source EntitySource
	lang   language.Tag
}

// New creates a search service. Tag-only results are ordered by name using English collation.
func New(source EntitySource) *Service {
	return &Service{source: source, lang: language.English}
}

// Search runs a query and returns one page of hits.
//
// Without query tokens or tags the result is empty. With tags only, matching
// documents are listed alphabetically with score 1. Otherwise documents are
// ranked by BM25 computed over the tag-filtered set; zero scores are dropped.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	tokens := req.Tokens()
	tags := req.Tags()
	if len(tokens) == 0 && tags.IsEmpty() {
		return result.Empty(req.Limit()), nil
	}

	docs, err := s.buildDocuments(ctx)
	if err != nil {
		return result.Page{}, err
	}

	if !tags.IsEmpty() {
		filtered := docs[:0]
		for _, d := range docs {
			if tags.Matches(d.Tags()) {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	var ranked []result.Hit
	if len(tokens) == 0 {
		ranked = s.rankByName(docs)
	} else {
		ranked = rankByScore(tokens, docs)
	}

	start := req.Offset()
	if start < 0 || start >= len(ranked) {
		return result.NewPage(nil, len(ranked), req.Page(), req.Limit()), nil
	}
	end := min(start+req.Limit(), len(ranked))
	items := make([]result.Hit, 0, end-start)
	for _, h := range ranked[start:end] {
		if len(tokens) > 0 {
			h = result.New(*h.Document(), result.Round4(h.Score()))
		}
		items = append(items, h)
	}

	return result.NewPage(items, len(ranked), req.Page(), req.Limit()), nil
}

func (s *Service) rankByName(docs []document.Document) []result.Hit {
	c := collate.New(s.lang)
	sorted := make([]document.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Name(), sorted[j].Name()) < 0
	})

	hits := make([]result.Hit, len(sorted))
	for i, d := range sorted {
		hits[i] = result.New(d, result.TagOnlyScore)
	}
	return hits
}

func rankByScore(tokens []string, docs []document.Document) []result.Hit {
	scores := score(tokens, docs)
	hits := make([]result.Hit, 0, len(scores))
	for _, sc := range scores {
		if sc.score > 0 {
			hits = append(hits, result.New(sc.doc, sc.score))
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})
	return hits
}

// buildDocuments fetches the three entity lists concurrently and converts
// them in firm, startup, community order. Any fetch error fails the build.
func (s *Service) buildDocuments(ctx context.Context) ([]document.Document, error) {
	var firms, startups, communities []entity.Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if firms, err = s.source.ListFirms(gctx); err != nil {
			return domain.NewUpstreamError(entity.KindFirm.Plural(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if startups, err = s.source.ListStartups(gctx); err != nil {
			return domain.NewUpstreamError(entity.KindStartup.Plural(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if communities, err = s.source.ListCommunities(gctx); err != nil {
			return domain.NewUpstreamError(entity.KindCommunity.Plural(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	docs := make([]document.Document, 0, len(firms)+len(startups)+len(communities))
	for _, list := range [][]entity.Entity{firms, startups, communities} {
		for i := range list {
			docs = append(docs, document.FromEntity(&list[i]))
		}
	}
	return docs, nil
}
