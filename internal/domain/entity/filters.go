package entity

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat é o formato de data usado por toda a API de cost insights.
const DateFormat = "2006-01-02"

// AllProjects é o valor de projeto que equivale a "nenhum projeto selecionado".
const AllProjects = "all"

// Duration represents the page duration as an ISO 8601 period.
type Duration string

const (
	DurationP7D  Duration = "P7D"
	DurationP30D Duration = "P30D"
	DurationP90D Duration = "P90D"
	// DurationP3M is a calendar quarter.
	DurationP3M Duration = "P3M"
)

// DefaultDuration is used when no duration is configured.
const DefaultDuration = DurationP30D

// Durations lists the supported durations in display order.
func Durations() []Duration {
	return []Duration{DurationP7D, DurationP30D, DurationP90D, DurationP3M}
}

// ParseDuration validates a duration string.
func ParseDuration(s string) (Duration, error) {
	d := Duration(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Durations() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unsupported duration %q (expected one of P7D, P30D, P90D, P3M)", s)
}

// Label retorna um nome legível para a duração.
func (d Duration) Label() string {
	switch d {
	case DurationP7D:
		return "Past 7 Days"
	case DurationP30D:
		return "Past 30 Days"
	case DurationP90D:
		return "Past 90 Days"
	case DurationP3M:
		return "Past Quarter"
	}
	return string(d)
}

// days retorna o número de dias dos períodos fixos.
func (d Duration) days() int {
	switch d {
	case DurationP7D:
		return 7
	case DurationP30D:
		return 30
	case DurationP90D:
		return 90
	}
	return 0
}

// PageFilters holds the user-selected dashboard filters.
type PageFilters struct {
	Group    string   `json:"group"`
	Project  string   `json:"project,omitempty"`
	Duration Duration `json:"duration"`
	Metric   string   `json:"metric,omitempty"`
}

// HasGroup reports whether a group is selected.
func (f PageFilters) HasGroup() bool {
	return f.Group != ""
}

// HasProject reports whether a specific project is selected.
// Both "" and "all" mean no project.
func (f PageFilters) HasProject() bool {
	return f.Project != "" && f.Project != AllProjects
}

// HasMetric reports whether a metric is selected.
func (f PageFilters) HasMetric() bool {
	return f.Metric != ""
}

// WithGroup selects a group. Project and metric are reset.
func (f PageFilters) WithGroup(group string) PageFilters {
	f.Group = group
	f.Project = ""
	f.Metric = ""
	return f
}

// WithProject selects a project. The metric is reset.
func (f PageFilters) WithProject(project string) PageFilters {
	f.Project = project
	f.Metric = ""
	return f
}

// WithDuration selects a duration.
func (f PageFilters) WithDuration(d Duration) PageFilters {
	f.Duration = d
	return f
}

// WithMetric selects a metric.
func (f PageFilters) WithMetric(metric string) PageFilters {
	f.Metric = metric
	return f
}

// quarterEndDate retorna o último dia do último trimestre completo.
// Se a própria data fecha um trimestre, ela é retornada.
func quarterEndDate(inclusiveEnd time.Time) time.Time {
	quarterStartMonth := time.Month(((int(inclusiveEnd.Month())-1)/3)*3 + 1)
	quarterStart := time.Date(inclusiveEnd.Year(), quarterStartMonth, 1, 0, 0, 0, 0, time.UTC)
	lastDayOfQuarter := quarterStart.AddDate(0, 3, -1)
	if sameDay(lastDayOfQuarter, inclusiveEnd) {
		return truncateDay(inclusiveEnd)
	}
	return quarterStart.AddDate(0, 0, -1)
}

// InclusiveEndDateOf returns the last day covered by the duration.
func InclusiveEndDateOf(d Duration, inclusiveEnd time.Time) time.Time {
	if d == DurationP3M {
		return quarterEndDate(inclusiveEnd)
	}
	return truncateDay(inclusiveEnd)
}

// ExclusiveEndDateOf returns the day after InclusiveEndDateOf.
func ExclusiveEndDateOf(d Duration, inclusiveEnd time.Time) time.Time {
	return InclusiveEndDateOf(d, inclusiveEnd).AddDate(0, 0, 1)
}

// IntervalsOf builds an ISO 8601 repeating interval, e.g. R2/P30D/2020-10-01.
func IntervalsOf(d Duration, inclusiveEnd time.Time, repeating int) string {
	if repeating <= 0 {
		repeating = 2
	}
	return fmt.Sprintf("R%d/%s/%s", repeating, d, ExclusiveEndDateOf(d, inclusiveEnd).Format(DateFormat))
}

// Window is a [Start, End) date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseIntervals parses a repeating interval into the date window it covers.
func ParseIntervals(intervals string) (Window, error) {
	parts := strings.Split(intervals, "/")
	if len(parts) != 3 || !strings.HasPrefix(parts[0], "R") {
		return Window{}, fmt.Errorf("invalid intervals %q", intervals)
	}

	var repeating int
	if _, err := fmt.Sscanf(parts[0], "R%d", &repeating); err != nil || repeating <= 0 {
		return Window{}, fmt.Errorf("invalid repetition in intervals %q", intervals)
	}

	d, err := ParseDuration(parts[1])
	if err != nil {
		return Window{}, err
	}

	end, err := time.Parse(DateFormat, parts[2])
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date in intervals %q: %w", intervals, err)
	}

	var start time.Time
	if d == DurationP3M {
		start = end.AddDate(0, -3*repeating, 0)
	} else {
		start = end.AddDate(0, 0, -d.days()*repeating)
	}

	return Window{Start: start, End: end}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
