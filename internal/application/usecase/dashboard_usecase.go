package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CurrencyFeatureFlag gates the currency selector.
const CurrencyFeatureFlag = "cost-insights-currencies"

// errSuperseded marks a load whose results were dropped because a newer load started.
var errSuperseded = errors.New("load superseded by a newer filter selection")

// DashboardUseCase handles the main dashboard functionality.
type DashboardUseCase struct {
	costRepo     repository.CostInsightsRepository
	exportRepo   repository.ExportRepository
	flagRepo     repository.FeatureFlagRepository
	console      types.ConsoleInterface
	currencies   []entity.Currency
	metrics      []entity.Metric
	engineerCost float64

	mu         sync.Mutex
	generation uint64
	filters    entity.PageFilters
	state      entity.LoadState
	data       *entity.DashboardData
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	costRepo repository.CostInsightsRepository,
	exportRepo repository.ExportRepository,
	flagRepo repository.FeatureFlagRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		costRepo:     costRepo,
		exportRepo:   exportRepo,
		flagRepo:     flagRepo,
		console:      console,
		currencies:   entity.DefaultCurrencies(),
		engineerCost: types.DefaultEngineerCost,
		state:        entity.LoadState{LoadingInitial: true},
	}
}

// SetEngineerCost overrides the annual engineer cost used by the engineers currency.
func (uc *DashboardUseCase) SetEngineerCost(cost float64) {
	if cost > 0 {
		uc.engineerCost = cost
	}
}

// SetMetrics sets the business metrics offered for comparison.
func (uc *DashboardUseCase) SetMetrics(metrics []entity.Metric) {
	uc.metrics = metrics
}

// Metrics returns the configured business metrics.
func (uc *DashboardUseCase) Metrics() []entity.Metric {
	return uc.metrics
}

// WithDefaultMetric selects the configured default metric when a group is
// set and no metric was chosen.
func (uc *DashboardUseCase) WithDefaultMetric(filters entity.PageFilters) entity.PageFilters {
	if !filters.HasGroup() || filters.HasMetric() {
		return filters
	}
	if m, ok := entity.DefaultMetric(uc.metrics); ok {
		return filters.WithMetric(m.Kind)
	}
	return filters
}

// Load fetches everything the dashboard needs for the given filters.
// Without a group nothing is fetched. On failure the whole fetch is
// discarded and the error is kept in the load state.
func (uc *DashboardUseCase) Load(ctx context.Context, filters entity.PageFilters) error {
	if filters.Duration == "" {
		filters.Duration = entity.DefaultDuration
	}

	uc.mu.Lock()
	uc.generation++
	generation := uc.generation
	uc.filters = filters

	if !filters.HasGroup() {
		uc.state = entity.LoadState{}
		uc.data = nil
		uc.mu.Unlock()
		return nil
	}

	uc.state.LoadingInsights = true
	uc.state.Error = nil
	uc.mu.Unlock()

	data, err := uc.fetch(ctx, filters)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if generation != uc.generation {
		logging.Debug("dropping superseded dashboard load", zap.String("group", filters.Group))
		return errSuperseded
	}

	uc.state.LoadingInitial = false
	uc.state.LoadingInsights = false

	if err != nil {
		uc.state.Error = err
		return err
	}

	uc.data = data
	return nil
}

// fetch busca os quatro recursos em paralelo; a primeira falha cancela os demais.
func (uc *DashboardUseCase) fetch(ctx context.Context, filters entity.PageFilters) (*entity.DashboardData, error) {
	billingDate, err := uc.costRepo.GetLastCompleteBillingDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting last complete billing date: %w", err)
	}

	endDate, err := time.Parse(entity.DateFormat, billingDate)
	if err != nil {
		return nil, fmt.Errorf("invalid last complete billing date %q: %w", billingDate, err)
	}

	intervals := entity.IntervalsOf(filters.Duration, endDate, 2)
	logging.Debug("loading dashboard",
		zap.String("group", filters.Group),
		zap.String("project", filters.Project),
		zap.String("metric", filters.Metric),
		zap.String("intervals", intervals),
	)

	var (
		projects   []entity.Project
		alerts     []entity.Alert
		metricData *entity.MetricData
		dailyCost  entity.Cost
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := uc.costRepo.GetGroupProjects(gctx, filters.Group)
		if err != nil {
			return fmt.Errorf("error getting projects for group %s: %w", filters.Group, err)
		}
		projects = result
		return nil
	})

	g.Go(func() error {
		result, err := uc.costRepo.GetAlerts(gctx, filters.Group)
		if err != nil {
			return fmt.Errorf("error getting alerts for group %s: %w", filters.Group, err)
		}
		alerts = result
		return nil
	})

	if filters.HasMetric() {
		g.Go(func() error {
			result, err := uc.costRepo.GetDailyMetricData(gctx, filters.Metric, intervals)
			if err != nil {
				return fmt.Errorf("error getting metric %s: %w", filters.Metric, err)
			}
			metricData = &result
			return nil
		})
	}

	g.Go(func() error {
		var (
			result entity.Cost
			err    error
		)
		if filters.HasProject() {
			result, err = uc.costRepo.GetProjectDailyCost(gctx, filters.Project, intervals)
			if err != nil {
				return fmt.Errorf("error getting daily cost for project %s: %w", filters.Project, err)
			}
		} else {
			result, err = uc.costRepo.GetGroupDailyCost(gctx, filters.Group, intervals)
			if err != nil {
				return fmt.Errorf("error getting daily cost for group %s: %w", filters.Group, err)
			}
		}
		dailyCost = result.WithDerived()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &entity.DashboardData{
		Filters:                 filters,
		Intervals:               intervals,
		LastCompleteBillingDate: billingDate,
		Projects:                projects,
		Alerts:                  alerts,
		MetricData:              metricData,
		DailyCost:               &dailyCost,
		FetchedAt:               time.Now().UTC(),
	}, nil
}

// State returns the current filters, load state and data.
func (uc *DashboardUseCase) State() (entity.PageFilters, entity.LoadState, *entity.DashboardData) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.filters, uc.state, uc.data
}

// View derives which view should be rendered from the current state.
func (uc *DashboardUseCase) View() entity.View {
	filters, state, data := uc.State()
	return ViewOf(filters, state, data)
}

// ViewOf derives the view for a state snapshot.
func ViewOf(filters entity.PageFilters, state entity.LoadState, data *entity.DashboardData) entity.View {
	switch {
	case !filters.HasGroup():
		return entity.ViewNoGroups
	case state.IsLoading():
		return entity.ViewLoading
	case state.Error != nil:
		return entity.ViewError
	case data.IsEmpty():
		return entity.ViewEmpty
	}
	return entity.ViewPopulated
}

// ResolveGroups returns the groups the user belongs to.
func (uc *DashboardUseCase) ResolveGroups(ctx context.Context, userID string) ([]entity.Group, error) {
	if userID == "" {
		return nil, nil
	}
	groups, err := uc.costRepo.GetUserGroups(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting groups for user %s: %w", userID, err)
	}
	return groups, nil
}

// SelectCurrency picks the currency to render amounts in. Without the
// currency feature flag amounts are always in US dollars.
func (uc *DashboardUseCase) SelectCurrency(kind string, d entity.Duration) entity.Currency {
	requested := entity.CurrencyKind(kind)
	if kind == "ENGINEERS" {
		requested = entity.CurrencyEngineers
	}

	currency, ok := uc.CurrencyFor(requested, d)
	switch {
	case ok || kind == "" || requested == entity.CurrencyUSD:
	case !uc.currencyEnabled():
		uc.console.LogWarning("Currency selection requires the %s feature flag; using US Dollars", CurrencyFeatureFlag)
	default:
		uc.console.LogWarning("Unknown currency %q; using US Dollars", kind)
	}
	return currency
}

// CurrencyFor resolve a moeda sem emitir avisos. Quando a moeda não está
// disponível retorna dólares e false.
func (uc *DashboardUseCase) CurrencyFor(kind entity.CurrencyKind, d entity.Duration) (entity.Currency, bool) {
	usd, _ := entity.FindCurrency(uc.currencies, entity.CurrencyUSD)
	if !uc.currencyEnabled() {
		return usd, kind == entity.CurrencyUSD
	}

	currency, ok := entity.FindCurrency(uc.currencies, kind)
	if !ok {
		return usd, false
	}
	if currency.Kind == entity.CurrencyEngineers {
		currency.Rate = entity.EngineerRate(uc.engineerCost, d)
	}
	return currency, true
}

func (uc *DashboardUseCase) currencyEnabled() bool {
	return uc.flagRepo != nil && uc.flagRepo.IsActive(CurrencyFeatureFlag)
}

// Currencies retorna as moedas disponíveis no seletor.
func (uc *DashboardUseCase) Currencies() []entity.Currency {
	if !uc.currencyEnabled() {
		return nil
	}
	return uc.currencies
}

// FiltersFromArgs builds page filters from the command-line arguments.
func FiltersFromArgs(args *types.CLIArgs) (entity.PageFilters, error) {
	duration := entity.DefaultDuration
	if args.Duration != "" {
		d, err := entity.ParseDuration(args.Duration)
		if err != nil {
			return entity.PageFilters{}, err
		}
		duration = d
	}

	return entity.PageFilters{
		Group:    args.Group,
		Project:  args.Project,
		Duration: duration,
		Metric:   args.Metric,
	}, nil
}

// RunDashboard executa a funcionalidade principal do dashboard.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, args *types.CLIArgs) error {
	filters, err := FiltersFromArgs(args)
	if err != nil {
		return err
	}

	// Sem grupo explícito, usa o primeiro grupo do usuário
	if !filters.HasGroup() && args.UserID != "" {
		groups, err := uc.ResolveGroups(ctx, args.UserID)
		if err != nil {
			uc.console.LogWarning("Could not resolve groups for user %s: %s", args.UserID, err)
		} else if len(groups) > 0 {
			// preenche o grupo sem descartar projeto e métrica pedidos
			filters.Group = groups[0].ID
			uc.console.LogInfo("Using group %s for user %s", groups[0].ID, args.UserID)
		}
	}

	filters = uc.WithDefaultMetric(filters)

	if filters.HasGroup() {
		status := uc.console.Status(fmt.Sprintf("Loading cost insights for %s...", filters.Group))
		_ = uc.Load(ctx, filters)
		status.Stop()
	} else {
		_ = uc.Load(ctx, filters)
	}

	currency := uc.SelectCurrency(args.Currency, filters.Duration)
	filters, state, data := uc.State()

	view := ViewOf(filters, state, data)
	uc.render(view, state, data, currency)

	switch view {
	case entity.ViewError:
		return state.Error
	case entity.ViewPopulated, entity.ViewEmpty:
		uc.export(*data, currency, args)
	}

	return nil
}

// export grava os relatórios pedidos na linha de comando.
func (uc *DashboardUseCase) export(data entity.DashboardData, currency entity.Currency, args *types.CLIArgs) {
	if args.ReportName == "" || len(args.ReportType) == 0 {
		return
	}

	for _, reportType := range args.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportDashboardToCSV(data, currency, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportDashboardToJSON(data, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportDashboardToPDF(data, currency, args.ReportName, args.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		default:
			uc.console.LogWarning("Unsupported report type: %s", reportType)
		}
	}
}
