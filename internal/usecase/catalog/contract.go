package catalog

import (
	"context"

	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
)

// EntitySource lists entities of each kind.
type EntitySource interface {
	ListFirms(ctx context.Context) ([]entity.Entity, error)
	ListStartups(ctx context.Context) ([]entity.Entity, error)
	ListCommunities(ctx context.Context) ([]entity.Entity, error)
}
