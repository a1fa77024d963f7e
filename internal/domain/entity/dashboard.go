package entity

import "time"

// DashboardData is the fetched state of the dashboard. Every field is
// replaced as a whole on each successful load.
type DashboardData struct {
	Filters                 PageFilters `json:"filters"`
	Intervals               string      `json:"intervals"`
	LastCompleteBillingDate string      `json:"last_complete_billing_date"`
	Projects                []Project   `json:"projects"`
	Alerts                  []Alert     `json:"alerts"`
	MetricData              *MetricData `json:"metric_data,omitempty"`
	DailyCost               *Cost       `json:"daily_cost"`
	FetchedAt               time.Time   `json:"fetched_at"`
}

// IsEmpty reports whether there are no cost points to show.
func (d *DashboardData) IsEmpty() bool {
	return d == nil || d.DailyCost == nil || len(d.DailyCost.Aggregation) == 0
}

// LoadState carries the loading flags and the last fetch error.
type LoadState struct {
	LoadingInitial  bool  `json:"loading_initial"`
	LoadingInsights bool  `json:"loading_insights"`
	Error           error `json:"-"`
}

// IsLoading reports whether any load is in progress.
func (s LoadState) IsLoading() bool {
	return s.LoadingInitial || s.LoadingInsights
}

// View identifies which dashboard view to render.
type View int

const (
	ViewNoGroups View = iota
	ViewLoading
	ViewError
	ViewEmpty
	ViewPopulated
)

// String retorna o nome da view.
func (v View) String() string {
	switch v {
	case ViewNoGroups:
		return "no-groups"
	case ViewLoading:
		return "loading"
	case ViewError:
		return "error"
	case ViewEmpty:
		return "empty"
	case ViewPopulated:
		return "populated"
	}
	return "unknown"
}
