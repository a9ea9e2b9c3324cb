package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/mode"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
	"github.com/houston-ecosystem/ecomap/internal/logger"
	"github.com/houston-ecosystem/ecomap/internal/metrics"
)

// Searcher runs a search request.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}

// InstrumentedSearcher wraps a Searcher with metrics and request-scoped logging.
// The ranking core stays silent; this layer owns search observability.
type InstrumentedSearcher struct {
	inner Searcher
}

// NewInstrumented wraps a searcher with observability.
func NewInstrumented(inner Searcher) *InstrumentedSearcher {
	return &InstrumentedSearcher{inner: inner}
}

// Search delegates to the inner searcher and records mode, latency and result count.
func (s *InstrumentedSearcher) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	m := string(mode.Of(req))
	start := time.Now()

	page, err := s.inner.Search(ctx, req)

	duration := time.Since(start)
	metrics.SearchDuration.WithLabelValues(m).Observe(duration.Seconds())
	log := logger.FromContext(ctx)

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(m, "error").Inc()
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			metrics.UpstreamErrorsTotal.WithLabelValues(upstream.Kind).Inc()
		}
		log.Warn("Search failed",
			zap.String("mode", m),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.Page{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(m, "ok").Inc()
	metrics.SearchResultsTotal.Observe(float64(page.Total()))
	log.Debug("Search completed",
		zap.String("mode", m),
		zap.Int("query_tokens", len(req.Tokens())),
		zap.Strings("tags", req.Tags().Terms()),
		zap.Int("total", page.Total()),
		zap.Int("page", page.Page()),
		zap.Duration("duration", duration),
	)
	return page, nil
}
