package catalog

import (
	"context"
	"fmt"

	"github.com/houston-ecosystem/ecomap/internal/domain"
	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/metrics"
)

// Service serves the per-kind entity listings behind the map layers.
type Service struct {
	source EntitySource
}

// New creates a catalog service.
func New(source EntitySource) *Service {
	return &Service{source: source}
}

// List returns all live entities of one kind in source order.
func (s *Service) List(ctx context.Context, kind entity.Kind) ([]entity.Entity, error) {
	var (
		list []entity.Entity
		err  error
	)
	switch kind {
	case entity.KindFirm:
		list, err = s.source.ListFirms(ctx)
	case entity.KindStartup:
		list, err = s.source.ListStartups(ctx)
	case entity.KindCommunity:
		list, err = s.source.ListCommunities(ctx)
	default:
		return nil, fmt.Errorf("list %q: %w", kind, domain.ErrUnknownKind)
	}
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(kind.Plural()).Inc()
		return nil, domain.NewUpstreamError(kind.Plural(), err)
	}
	if list == nil {
		list = []entity.Entity{}
	}
	return list, nil
}
