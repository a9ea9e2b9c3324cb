package chi

import (
	"context"

	"github.com/houston-ecosystem/ecomap/internal/domain/entity"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/request"
	"github.com/houston-ecosystem/ecomap/internal/domain/search/result"
	healthuc "github.com/houston-ecosystem/ecomap/internal/usecase/health"
)

// Searcher runs ranked directory searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (result.Page, error)
}

// Catalog lists entities of one kind.
type Catalog interface {
	List(ctx context.Context, kind entity.Kind) ([]entity.Entity, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
