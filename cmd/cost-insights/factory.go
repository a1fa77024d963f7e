package main

import (
	"fmt"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/aws"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/catalog"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/costinsights"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/export"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/featureflag"
	"github.com/diillson/cost-insights-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
)

// factory monta os casos de uso a partir da configuração resolvida.
type factory struct {
	console types.ConsoleInterface
}

func newFactory(console types.ConsoleInterface) *factory {
	return &factory{console: console}
}

func (f *factory) Dashboard(cfg *types.Config) (*usecase.DashboardUseCase, error) {
	costRepo, err := costRepository(cfg)
	if err != nil {
		return nil, err
	}

	dashboard := usecase.NewDashboardUseCase(
		costRepo,
		export.NewExportRepository(),
		featureflag.NewFeatureFlagRepository(cfg.FeatureFlags),
		f.console,
	)
	dashboard.SetEngineerCost(cfg.EngineerCost)

	metrics := make([]entity.Metric, 0, len(cfg.Metrics))
	for _, m := range cfg.Metrics {
		metrics = append(metrics, entity.Metric{Kind: m.Kind, Name: m.Name, Default: m.Default})
	}
	dashboard.SetMetrics(metrics)

	return dashboard, nil
}

func (f *factory) Identity(cfg *types.Config) (*usecase.IdentityUseCase, error) {
	catalogRepo, err := catalog.NewCatalogRepository(cfg.CatalogURL, cfg.CatalogToken, timeoutOf(cfg))
	if err != nil {
		return nil, err
	}

	caller := aws.NewAWSRepository(cfg.AWSProfile, cfg.GroupTagKey, cfg.ProjectTagKey)
	return usecase.NewIdentityUseCase(catalogRepo, caller, f.console), nil
}

func costRepository(cfg *types.Config) (repository.CostInsightsRepository, error) {
	switch cfg.Backend {
	case "", "http":
		return costinsights.NewHTTPRepository(cfg.CostInsightsURL, timeoutOf(cfg))
	case "aws":
		return aws.NewAWSRepository(cfg.AWSProfile, cfg.GroupTagKey, cfg.ProjectTagKey), nil
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedBackend, cfg.Backend)
}

func timeoutOf(cfg *types.Config) time.Duration {
	if cfg.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}
