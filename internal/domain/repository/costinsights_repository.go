package repository

import (
	"context"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
)

// CostInsightsRepository defines the interface for the cost insights API.
type CostInsightsRepository interface {
	// Billing
	GetLastCompleteBillingDate(ctx context.Context) (string, error)

	// Groups and projects
	GetUserGroups(ctx context.Context, userID string) ([]entity.Group, error)
	GetGroupProjects(ctx context.Context, group string) ([]entity.Project, error)

	// Alerts
	GetAlerts(ctx context.Context, group string) ([]entity.Alert, error)

	// Daily series
	GetDailyMetricData(ctx context.Context, metric string, intervals string) (entity.MetricData, error)
	GetProjectDailyCost(ctx context.Context, project string, intervals string) (entity.Cost, error)
	GetGroupDailyCost(ctx context.Context, group string, intervals string) (entity.Cost, error)
}
