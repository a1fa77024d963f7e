package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboard(repo *fakeCostRepo, flags fakeFlags) (*DashboardUseCase, *fakeConsole, *fakeExport) {
	console := &fakeConsole{}
	exports := &fakeExport{}
	return NewDashboardUseCase(repo, exports, flags, console), console, exports
}

func TestLoad_NoGroupFetchesNothing(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)

	_, initial, _ := uc.State()
	assert.True(t, initial.LoadingInitial)

	err := uc.Load(context.Background(), entity.PageFilters{})
	require.NoError(t, err)

	_, state, data := uc.State()
	assert.Zero(t, repo.callCount())
	assert.False(t, state.IsLoading())
	assert.Nil(t, data)
	assert.Equal(t, entity.ViewNoGroups, uc.View())
}

func TestLoad_GroupCost(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)

	err := uc.Load(context.Background(), entity.PageFilters{Group: "team-a"})
	require.NoError(t, err)

	assert.True(t, repo.called("GetGroupDailyCost"))
	assert.False(t, repo.called("GetProjectDailyCost"))
	assert.False(t, repo.called("GetDailyMetricData"))
	assert.Contains(t, repo.calls, "GetGroupDailyCost(team-a,R2/P30D/2020-10-01)")
	assert.Contains(t, repo.calls, "GetGroupProjects(team-a)")
	assert.Contains(t, repo.calls, "GetAlerts(team-a)")

	filters, state, data := uc.State()
	assert.Equal(t, entity.DurationP30D, filters.Duration)
	assert.False(t, state.IsLoading())
	assert.NoError(t, state.Error)
	require.NotNil(t, data)
	assert.Equal(t, "R2/P30D/2020-10-01", data.Intervals)
	assert.Equal(t, "2020-09-30", data.LastCompleteBillingDate)
	assert.Equal(t, repo.projects, data.Projects)
	assert.Equal(t, repo.alerts, data.Alerts)
	assert.Nil(t, data.MetricData)
	require.NotNil(t, data.DailyCost.Change)
	assert.Equal(t, 50.0, data.DailyCost.Change.Amount)
	assert.Equal(t, entity.ViewPopulated, uc.View())
}

func TestLoad_ProjectCost(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)

	err := uc.Load(context.Background(), entity.PageFilters{Group: "team-a", Project: "p1", Duration: entity.DurationP7D})
	require.NoError(t, err)

	assert.Contains(t, repo.calls, "GetProjectDailyCost(p1,R2/P7D/2020-10-01)")
	assert.False(t, repo.called("GetGroupDailyCost"))
}

func TestLoad_AllProjectsUsesGroupCost(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)

	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{Group: "team-a", Project: entity.AllProjects}))
	assert.True(t, repo.called("GetGroupDailyCost"))
	assert.False(t, repo.called("GetProjectDailyCost"))
}

func TestLoad_MetricOnlyWhenSelected(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)

	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{Group: "team-a", Metric: "dau"}))

	assert.Contains(t, repo.calls, "GetDailyMetricData(dau,R2/P30D/2020-10-01)")
	_, _, data := uc.State()
	require.NotNil(t, data.MetricData)
	assert.Equal(t, "dau", data.MetricData.ID)
}

func TestLoad_QuarterIntervals(t *testing.T) {
	repo := newFakeCostRepo()
	repo.billingDate = "2020-08-15"
	uc, _, _ := newDashboard(repo, nil)

	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{Group: "team-a", Duration: entity.DurationP3M}))
	assert.Contains(t, repo.calls, "GetGroupDailyCost(team-a,R2/P3M/2020-07-01)")
}

func TestLoad_EmptyCost(t *testing.T) {
	repo := newFakeCostRepo()
	repo.cost = entity.Cost{ID: "team-a"}
	uc, _, _ := newDashboard(repo, nil)

	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{Group: "team-a"}))
	assert.Equal(t, entity.ViewEmpty, uc.View())
}

func TestLoad_FailureClearsLoadingAndKeepsError(t *testing.T) {
	selected := entity.PageFilters{Group: "team-a", Project: "p1", Metric: "dau"}

	for _, method := range []string{"GetGroupProjects", "GetAlerts", "GetDailyMetricData", "GetProjectDailyCost"} {
		t.Run(method, func(t *testing.T) {
			repo := newFakeCostRepo()
			boom := errors.New("boom")
			repo.err[method] = boom
			uc, _, _ := newDashboard(repo, nil)

			err := uc.Load(context.Background(), selected)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)

			_, state, data := uc.State()
			assert.False(t, state.LoadingInitial)
			assert.False(t, state.LoadingInsights)
			assert.ErrorIs(t, state.Error, boom)
			assert.Nil(t, data)
			assert.Equal(t, entity.ViewError, uc.View())
		})
	}
}

func TestLoad_FailureKeepsPreviousData(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)
	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{Group: "team-a"}))
	_, _, before := uc.State()
	require.NotNil(t, before)

	repo.err["GetDailyMetricData"] = types.ErrNotFound
	err := uc.Load(context.Background(), entity.PageFilters{Group: "team-a", Metric: "dau"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, state, after := uc.State()
	assert.False(t, state.IsLoading())
	assert.Same(t, before, after)
	assert.Nil(t, after.MetricData)
}

func TestLoad_FailureCancelsSiblings(t *testing.T) {
	repo := newFakeCostRepo()
	repo.err["GetAlerts"] = types.ErrNotFound
	// GetGroupDailyCost só retorna quando o contexto é cancelado
	repo.block = make(chan struct{})
	uc, _, _ := newDashboard(repo, nil)

	done := make(chan error, 1)
	go func() { done <- uc.Load(context.Background(), entity.PageFilters{Group: "team-a"}) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, types.ErrNotFound)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not return after a sibling failure")
	}
}

func TestLoad_BillingDateFailure(t *testing.T) {
	repo := newFakeCostRepo()
	repo.billingDate = "yesterday"
	uc, _, _ := newDashboard(repo, nil)

	err := uc.Load(context.Background(), entity.PageFilters{Group: "team-a"})
	require.Error(t, err)
	assert.False(t, repo.called("GetGroupProjects"))
}

func TestLoad_SupersededResultsAreDropped(t *testing.T) {
	repo := newFakeCostRepo()
	repo.block = make(chan struct{})
	uc, _, _ := newDashboard(repo, nil)

	done := make(chan error, 1)
	go func() { done <- uc.Load(context.Background(), entity.PageFilters{Group: "team-a"}) }()

	require.Eventually(t, func() bool {
		_, state, _ := uc.State()
		return state.LoadingInsights
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, uc.Load(context.Background(), entity.PageFilters{}))
	close(repo.block)

	err := <-done
	assert.ErrorIs(t, err, errSuperseded)

	filters, state, data := uc.State()
	assert.False(t, filters.HasGroup())
	assert.False(t, state.IsLoading())
	assert.Nil(t, data)
}

func TestSelectCurrency(t *testing.T) {
	t.Run("flag off always uses dollars", func(t *testing.T) {
		uc, console, _ := newDashboard(newFakeCostRepo(), fakeFlags{})
		c := uc.SelectCurrency("BEERS", entity.DurationP30D)
		assert.Equal(t, entity.CurrencyUSD, c.Kind)
		assert.Len(t, console.warns, 1)
		assert.Nil(t, uc.Currencies())
	})

	t.Run("flag off without request is silent", func(t *testing.T) {
		uc, console, _ := newDashboard(newFakeCostRepo(), nil)
		assert.Equal(t, entity.CurrencyUSD, uc.SelectCurrency("", entity.DurationP30D).Kind)
		assert.Empty(t, console.warns)
	})

	flags := fakeFlags{CurrencyFeatureFlag: true}

	t.Run("flag on selects currency", func(t *testing.T) {
		uc, _, _ := newDashboard(newFakeCostRepo(), flags)
		assert.Equal(t, entity.CurrencyBeers, uc.SelectCurrency("BEERS", entity.DurationP30D).Kind)
		assert.Len(t, uc.Currencies(), len(entity.DefaultCurrencies()))
	})

	t.Run("engineers rate follows duration", func(t *testing.T) {
		uc, _, _ := newDashboard(newFakeCostRepo(), flags)
		uc.SetEngineerCost(120000)
		c := uc.SelectCurrency("ENGINEERS", entity.DurationP30D)
		assert.Equal(t, entity.CurrencyEngineers, c.Kind)
		assert.Equal(t, 10000.0, c.Rate)
	})

	t.Run("unknown currency falls back", func(t *testing.T) {
		uc, console, _ := newDashboard(newFakeCostRepo(), flags)
		assert.Equal(t, entity.CurrencyUSD, uc.SelectCurrency("EUR", entity.DurationP30D).Kind)
		assert.Len(t, console.warns, 1)
	})
}

func TestFiltersFromArgs(t *testing.T) {
	f, err := FiltersFromArgs(&types.CLIArgs{Group: "team-a", Duration: "p7d"})
	require.NoError(t, err)
	assert.Equal(t, entity.PageFilters{Group: "team-a", Duration: entity.DurationP7D}, f)

	f, err = FiltersFromArgs(&types.CLIArgs{})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultDuration, f.Duration)

	_, err = FiltersFromArgs(&types.CLIArgs{Duration: "P1Y"})
	assert.Error(t, err)
}

func TestRunDashboard_NoGroups(t *testing.T) {
	repo := newFakeCostRepo()
	uc, console, exports := newDashboard(repo, nil)

	err := uc.RunDashboard(context.Background(), &types.CLIArgs{ReportName: "r", ReportType: []string{"csv"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Welcome to Cost Insights"}, console.panels)
	assert.Zero(t, repo.callCount())
	assert.Empty(t, exports.types)
}

func TestRunDashboard_Populated(t *testing.T) {
	repo := newFakeCostRepo()
	repo.alerts = []entity.Alert{
		{Title: "Costs went up", Subtitle: "by a lot"},
		{Title: "Old news", Status: entity.AlertStatusSnoozed},
	}
	uc, console, exports := newDashboard(repo, nil)

	err := uc.RunDashboard(context.Background(), &types.CLIArgs{
		Group:      "team-a",
		ReportName: "report",
		ReportType: []string{"csv", "json", "xlsx"},
	})
	require.NoError(t, err)

	out := console.output()
	assert.Contains(t, out, "team-a")
	assert.Contains(t, out, "$250.00")
	assert.Contains(t, out, "Daily Cost: 2 bars")
	assert.Contains(t, out, "Checkout | p1")
	assert.Contains(t, out, "Costs went up")
	assert.NotContains(t, out, "Old news")
	assert.Contains(t, out, "Hidden action items: 1 snoozed")
	assert.Equal(t, []string{"csv", "json"}, exports.types)
	assert.Contains(t, console.warns, "Unsupported report type: xlsx")
}

func TestRunDashboard_Error(t *testing.T) {
	repo := newFakeCostRepo()
	repo.err["GetGroupProjects"] = errors.New("unavailable")
	uc, console, exports := newDashboard(repo, nil)

	err := uc.RunDashboard(context.Background(), &types.CLIArgs{Group: "team-a", ReportName: "r", ReportType: []string{"csv"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
	assert.Equal(t, []string{"Error"}, console.panels)
	assert.Empty(t, exports.types)
}

func TestRunDashboard_GroupFromUser(t *testing.T) {
	repo := newFakeCostRepo()
	repo.groups = []entity.Group{{ID: "team-b"}, {ID: "team-c"}}
	uc, _, _ := newDashboard(repo, nil)

	require.NoError(t, uc.RunDashboard(context.Background(), &types.CLIArgs{UserID: "jdoe"}))

	assert.Contains(t, repo.calls, "GetUserGroups(jdoe)")
	assert.True(t, repo.called("GetAlerts"))
	filters, _, _ := uc.State()
	assert.Equal(t, "team-b", filters.Group)
}

func TestRunDashboard_GroupFromUserKeepsProjectAndMetric(t *testing.T) {
	repo := newFakeCostRepo()
	repo.groups = []entity.Group{{ID: "team-b"}}
	uc, _, _ := newDashboard(repo, nil)

	args := &types.CLIArgs{UserID: "jdoe", Project: "p1", Metric: "dau"}
	require.NoError(t, uc.RunDashboard(context.Background(), args))

	assert.Contains(t, repo.calls, "GetProjectDailyCost(p1,R2/P30D/2020-10-01)")
	assert.Contains(t, repo.calls, "GetDailyMetricData(dau,R2/P30D/2020-10-01)")
	assert.False(t, repo.called("GetGroupDailyCost"))

	filters, _, _ := uc.State()
	assert.Equal(t, entity.PageFilters{Group: "team-b", Project: "p1", Duration: entity.DurationP30D, Metric: "dau"}, filters)
}

func TestWithDefaultMetric(t *testing.T) {
	uc, _, _ := newDashboard(newFakeCostRepo(), nil)
	assert.Equal(t, entity.PageFilters{}, uc.WithDefaultMetric(entity.PageFilters{}))

	uc.SetMetrics([]entity.Metric{{Kind: "dau", Default: true}})
	assert.Equal(t, "dau", uc.WithDefaultMetric(entity.PageFilters{Group: "team-a"}).Metric)
	assert.Equal(t, "msc", uc.WithDefaultMetric(entity.PageFilters{Group: "team-a", Metric: "msc"}).Metric)
	assert.Empty(t, uc.WithDefaultMetric(entity.PageFilters{}).Metric)
}

func TestCurrencyFor_IsSilent(t *testing.T) {
	uc, console, _ := newDashboard(newFakeCostRepo(), fakeFlags{})
	c, ok := uc.CurrencyFor(entity.CurrencyBeers, entity.DurationP30D)
	assert.False(t, ok)
	assert.Equal(t, entity.CurrencyUSD, c.Kind)

	_, ok = uc.CurrencyFor(entity.CurrencyUSD, entity.DurationP30D)
	assert.True(t, ok)
	assert.Empty(t, console.warns)

	enabled, _, _ := newDashboard(newFakeCostRepo(), fakeFlags{CurrencyFeatureFlag: true})
	enabled.SetEngineerCost(52000)
	c, ok = enabled.CurrencyFor(entity.CurrencyEngineers, entity.DurationP7D)
	assert.True(t, ok)
	assert.Equal(t, 1000.0, c.Rate)
}

func TestRunDashboard_DefaultMetric(t *testing.T) {
	repo := newFakeCostRepo()
	uc, _, _ := newDashboard(repo, nil)
	uc.SetMetrics([]entity.Metric{{Kind: "msc", Name: "Monthly shipped carts"}, {Kind: "dau", Name: "Daily active users", Default: true}})

	require.NoError(t, uc.RunDashboard(context.Background(), &types.CLIArgs{Group: "team-a"}))
	assert.Contains(t, repo.calls, "GetDailyMetricData(dau,R2/P30D/2020-10-01)")
}

func TestFormatTrend(t *testing.T) {
	usd, _ := entity.FindCurrency(entity.DefaultCurrencies(), entity.CurrencyUSD)

	assert.Contains(t, FormatTrend(entity.Trendline{Slope: 10.0 / secondsPerDay}, usd), "+$10.00/day")
	assert.Contains(t, FormatTrend(entity.Trendline{Slope: -2.0 / secondsPerDay}, usd), "-$2.00/day")
	assert.Contains(t, FormatTrend(entity.Trendline{}, usd), "flat")
}

func TestFormatChange(t *testing.T) {
	usd, _ := entity.FindCurrency(entity.DefaultCurrencies(), entity.CurrencyUSD)
	ratio := 0.25

	assert.Equal(t, "+$5.00", FormatChange(entity.ChangeStatistic{Amount: 5}, usd))
	assert.Contains(t, FormatChange(entity.ChangeStatistic{Amount: -5, Ratio: &ratio}, usd), "(-$5.00)")
	assert.Contains(t, FormatChange(entity.ChangeStatistic{Amount: 5, Ratio: &ratio}, usd), "+25.00%")
}

func TestDailyBars(t *testing.T) {
	usd, _ := entity.FindCurrency(entity.DefaultCurrencies(), entity.CurrencyUSD)
	bars := DailyBars([]entity.DateAggregation{{Date: "2020-09-30", Amount: 1500}}, usd)

	require.Len(t, bars, 1)
	assert.Equal(t, types.DailyBar{Date: "2020-09-30", Amount: 1500, Label: "$1,500.00"}, bars[0])
}
