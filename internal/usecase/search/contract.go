package search

import (
	"context"

	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// EntitySource supplies current snapshots of the three entity lists.
// Implementations must be safe for concurrent use: the lists are fetched in parallel.
type EntitySource interface {
	ListFirms(ctx context.Context) ([]entity.Entity, error)
	ListStartups(ctx context.Context) ([]entity.Entity, error)
	ListCommunities(ctx context.Context) ([]entity.Entity, error)
}
