package repository

import (
	"context"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
)

// CatalogRepository defines the interface for the catalog service.
type CatalogRepository interface {
	GetEntities(ctx context.Context, filter entity.EntityFilter) ([]entity.Entity, error)
}

// CallerIdentityRepository resolves the identity of the current cloud caller.
type CallerIdentityRepository interface {
	GetCallerARN(ctx context.Context, profile string) (string, error)
}
