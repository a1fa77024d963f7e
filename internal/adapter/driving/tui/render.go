package tui

import (
	"fmt"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/rivo/tview"
)

const barWidth = 30

// RenderText renders a state snapshot as tview-tagged text.
func RenderText(filters entity.PageFilters, state entity.LoadState, data *entity.DashboardData, currency entity.Currency) string {
	var b strings.Builder

	switch usecase.ViewOf(filters, state, data) {
	case entity.ViewNoGroups:
		b.WriteString("[::b]Welcome to Cost Insights[::-]\n\n")
		b.WriteString("You are not a member of any group yet.\n")
		b.WriteString("Start the dashboard with --group <name> or --user-id <id>.\n")
		return b.String()
	case entity.ViewLoading:
		return "[yellow]Loading cost insights...[-]"
	case entity.ViewError:
		b.WriteString("[red::b]Failed to load cost insights[-::-]\n\n")
		b.WriteString(tview.Escape(state.Error.Error()))
		b.WriteString("\n\nPress r to retry.")
		return b.String()
	}

	cost := data.DailyCost
	if cost == nil {
		cost = &entity.Cost{}
	}
	b.WriteString(fmt.Sprintf("[::b]Total[::-] %s", currency.Format(cost.Total())))
	if cost.Change != nil {
		b.WriteString("   " + changeText(*cost.Change, currency))
	}
	b.WriteString(fmt.Sprintf("\n[::d]%s, billing complete through %s[::-]\n\n", data.Intervals, data.LastCompleteBillingDate))

	if len(cost.Aggregation) == 0 {
		b.WriteString("[yellow]No costs were reported in this period.[-]\n\n")
	} else {
		maxAmount := 0.0
		for _, point := range cost.Aggregation {
			if point.Amount > maxAmount {
				maxAmount = point.Amount
			}
		}
		for _, point := range cost.Aggregation {
			length := 0
			if maxAmount > 0 {
				length = int(point.Amount / maxAmount * barWidth)
			}
			b.WriteString(fmt.Sprintf("%s [blue]%-*s[-] %s\n", point.Date, barWidth, strings.Repeat("█", length), currency.Format(point.Amount)))
		}
		b.WriteString("\n")
	}

	if data.MetricData != nil {
		b.WriteString(fmt.Sprintf("[::b]Metric[::-] %s", tview.Escape(data.MetricData.ID)))
		if data.MetricData.Change.Ratio != nil {
			b.WriteString(fmt.Sprintf("  %+.2f%%", *data.MetricData.Change.Ratio*100))
		}
		b.WriteString("\n\n")
	}

	active := entity.ActiveAlerts(data.Alerts)
	b.WriteString(fmt.Sprintf("[::b]Action Items[::-] (%d)\n", len(active)))
	if len(active) == 0 {
		b.WriteString("[green]No action items. Nice work![-]\n")
	}
	for _, a := range active {
		b.WriteString(fmt.Sprintf("[yellow]•[-] %s\n  [::d]%s[::-]\n", tview.Escape(a.Title), tview.Escape(a.Subtitle)))
	}

	return b.String()
}

func changeText(change entity.ChangeStatistic, currency entity.Currency) string {
	color := "green"
	sign := "-"
	amount := -change.Amount
	if change.Amount > 0 {
		color, sign, amount = "red", "+", change.Amount
	}

	text := fmt.Sprintf("[%s]%s%s", color, sign, currency.Format(amount))
	if change.Ratio != nil {
		text += fmt.Sprintf(" (%+.2f%%)", *change.Ratio*100)
	}
	return text + "[-]"
}
