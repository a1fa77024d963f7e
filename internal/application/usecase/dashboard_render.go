package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

const secondsPerDay = 86400

// render exibe a view correspondente ao estado atual.
func (uc *DashboardUseCase) render(view entity.View, state entity.LoadState, data *entity.DashboardData, currency entity.Currency) {
	switch view {
	case entity.ViewNoGroups:
		uc.renderNoGroups()
	case entity.ViewLoading:
		uc.console.LogInfo("Loading cost insights...")
	case entity.ViewError:
		uc.console.Panel("Error", pterm.FgRed.Sprintf("Failed to load cost insights:\n%s", state.Error))
	case entity.ViewEmpty:
		uc.renderOverview(data, currency)
		uc.console.LogWarning("No costs were reported for %s in this period", scopeName(data.Filters))
		uc.renderProjects(data.Projects)
		uc.renderAlerts(data.Alerts)
	case entity.ViewPopulated:
		uc.renderOverview(data, currency)
		uc.console.DisplayDailyBars("Daily Cost", DailyBars(data.DailyCost.Aggregation, currency))
		uc.renderMetric(data.MetricData, data.DailyCost)
		uc.renderProjects(data.Projects)
		uc.renderAlerts(data.Alerts)
	}
}

func (uc *DashboardUseCase) renderNoGroups() {
	var b strings.Builder
	b.WriteString("You are not a member of any cost insights group yet.\n\n")
	b.WriteString("Cost insights shows the cloud spend of your team over time, compared with\n")
	b.WriteString("the business metrics it supports. To get started:\n\n")
	b.WriteString("  1. Ask your billing administrator to add you to a group\n")
	b.WriteString("  2. Or pass a group explicitly with --group <name>\n")
	b.WriteString("  3. Or pass --user-id <id> to use the groups you belong to")
	uc.console.Panel("Welcome to Cost Insights", b.String())
}

func (uc *DashboardUseCase) renderOverview(data *entity.DashboardData, currency entity.Currency) {
	table := uc.console.CreateTable()
	table.AddColumn("Scope")
	table.AddColumn("Period")
	table.AddColumn(fmt.Sprintf("Total (%s)", currency.Label))
	table.AddColumn("Change")
	table.AddColumn("Trend")

	cost := data.DailyCost
	total := 0.0
	change := "N/A"
	trend := "N/A"
	if cost != nil {
		total = cost.Total()
		if cost.Change != nil {
			change = FormatChange(*cost.Change, currency)
		}
		if cost.Trendline != nil {
			trend = FormatTrend(*cost.Trendline, currency)
		}
	}

	table.AddRow(
		pterm.FgMagenta.Sprint(scopeName(data.Filters)),
		fmt.Sprintf("%s\n(%s)", data.Filters.Duration.Label(), data.Intervals),
		currency.Format(total),
		change,
		trend,
	)

	uc.console.Print(table.Render())
	uc.console.Println()
}

func (uc *DashboardUseCase) renderMetric(metric *entity.MetricData, cost *entity.Cost) {
	if metric == nil {
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Metric")
	table.AddColumn("Latest")
	table.AddColumn("Change")
	table.AddColumn("Cost Growth vs Metric Growth")

	latest := "N/A"
	if n := len(metric.Aggregation); n > 0 {
		latest = formatMetricAmount(metric.Aggregation[n-1].Amount, metric.Format)
	}

	metricChange := metric.Change
	if metricChange.Ratio == nil && len(metric.Aggregation) > 0 {
		metricChange = entity.ChangeOf(metric.Aggregation)
	}

	comparison := "N/A"
	if cost != nil && cost.Change != nil && cost.Change.Ratio != nil && metricChange.Ratio != nil {
		comparison = formatRatio(*cost.Change.Ratio - *metricChange.Ratio)
	}

	ratio := "N/A"
	if metricChange.Ratio != nil {
		ratio = formatRatio(*metricChange.Ratio)
	}

	table.AddRow(pterm.FgCyan.Sprint(metric.ID), latest, ratio, comparison)
	uc.console.Print(table.Render())
	uc.console.Println()
}

func (uc *DashboardUseCase) renderProjects(projects []entity.Project) {
	if len(projects) == 0 {
		uc.console.LogInfo("No projects found for this group")
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Project")
	table.AddColumn("ID")
	for _, p := range projects {
		table.AddRow(p.DisplayName(), p.ID)
	}
	uc.console.Print(table.Render())
	uc.console.Println()
}

func (uc *DashboardUseCase) renderAlerts(alerts []entity.Alert) {
	active := entity.ActiveAlerts(alerts)
	counts := entity.CountByStatus(alerts)

	if len(active) == 0 {
		uc.console.LogSuccess("No action items. Nice work!")
	} else {
		table := uc.console.CreateTable()
		table.AddColumn("Action Item")
		table.AddColumn("Details")
		table.AddColumn("URL")
		for _, a := range active {
			table.AddRow(pterm.FgYellow.Sprint(a.Title), a.Subtitle, a.URL)
		}
		uc.console.Print(table.Render())
		uc.console.Println()
	}

	hidden := []string{}
	for _, status := range []entity.AlertStatus{entity.AlertStatusSnoozed, entity.AlertStatusAccepted, entity.AlertStatusDismissed} {
		if n := counts[status]; n > 0 {
			hidden = append(hidden, fmt.Sprintf("%d %s", n, status))
		}
	}
	if len(hidden) > 0 {
		uc.console.LogInfo("Hidden action items: %s", strings.Join(hidden, ", "))
	}
}

// DailyBars converts a cost aggregation into chart bars labelled in the currency.
func DailyBars(aggregation []entity.DateAggregation, currency entity.Currency) []types.DailyBar {
	bars := make([]types.DailyBar, 0, len(aggregation))
	for _, a := range aggregation {
		bars = append(bars, types.DailyBar{
			Date:   a.Date,
			Amount: a.Amount,
			Label:  currency.Format(a.Amount),
		})
	}
	return bars
}

// FormatChange renders a change statistic with a colored ratio.
func FormatChange(change entity.ChangeStatistic, currency entity.Currency) string {
	amount := currency.Format(math.Abs(change.Amount))
	if change.Amount < 0 {
		amount = "-" + amount
	} else if change.Amount > 0 {
		amount = "+" + amount
	}

	if change.Ratio == nil {
		return amount
	}
	return fmt.Sprintf("%s (%s)", formatRatio(*change.Ratio), amount)
}

// FormatTrend renders the trendline slope as an amount per day.
func FormatTrend(trend entity.Trendline, currency entity.Currency) string {
	perDay := trend.Slope * secondsPerDay
	switch {
	case math.Abs(perDay) < 0.005:
		return pterm.FgYellow.Sprint("flat")
	case perDay > 0:
		return pterm.FgRed.Sprintf("+%s/day", currency.Format(perDay))
	default:
		return pterm.FgGreen.Sprintf("-%s/day", currency.Format(-perDay))
	}
}

func formatRatio(ratio float64) string {
	percent := ratio * 100
	switch {
	case math.Abs(percent) < 0.01:
		return pterm.FgYellow.Sprint("0%")
	case percent > 999:
		return pterm.FgRed.Sprint(">+999%")
	case percent < -999:
		return pterm.FgGreen.Sprint(">-999%")
	case percent > 0:
		return pterm.FgRed.Sprintf("+%.2f%%", percent)
	default:
		return pterm.FgGreen.Sprintf("%.2f%%", percent)
	}
}

func formatMetricAmount(amount float64, format entity.MetricFormat) string {
	if format == entity.MetricFormatPrice {
		return fmt.Sprintf("$%.2f", amount)
	}
	return fmt.Sprintf("%.0f", amount)
}

// scopeName retorna "grupo" ou "grupo / projeto".
func scopeName(filters entity.PageFilters) string {
	if filters.HasProject() {
		return fmt.Sprintf("%s / %s", filters.Group, filters.Project)
	}
	return filters.Group
}
