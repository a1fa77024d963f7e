package entity

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// DateAggregation is the amount for a single day.
type DateAggregation struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// ChangeStatistic describes how an amount moved over a period.
// Ratio is nil when the starting amount is zero.
type ChangeStatistic struct {
	Ratio  *float64 `json:"ratio,omitempty"`
	Amount float64  `json:"amount"`
}

// Trendline is a linear fit of amount over unix time in seconds.
type Trendline struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Cost is the daily cost of a group or project.
type Cost struct {
	ID          string            `json:"id"`
	Aggregation []DateAggregation `json:"aggregation"`
	Change      *ChangeStatistic  `json:"change,omitempty"`
	Trendline   *Trendline        `json:"trendline,omitempty"`
	// Groupings são os custos quebrados por serviço/produto, quando o backend os fornece.
	Groupings map[string][]DateAggregation `json:"groupedCosts,omitempty"`
}

// Total soma todos os pontos da agregação.
func (c Cost) Total() float64 {
	return TotalOf(c.Aggregation)
}

// TotalOf sums the amounts of an aggregation.
func TotalOf(aggregation []DateAggregation) float64 {
	total := 0.0
	for _, a := range aggregation {
		total += a.Amount
	}
	return total
}

// ChangeOf compares the last point against the first one.
func ChangeOf(aggregation []DateAggregation) ChangeStatistic {
	if len(aggregation) == 0 {
		return ChangeStatistic{}
	}

	first := aggregation[0].Amount
	last := aggregation[len(aggregation)-1].Amount
	change := ChangeStatistic{Amount: last - first}
	if first != 0 {
		ratio := (last - first) / first
		change.Ratio = &ratio
	}
	return change
}

// TrendlineOf fits a least-squares line through the aggregation.
// Points with unparseable dates are skipped.
func TrendlineOf(aggregation []DateAggregation) Trendline {
	xs := make([]float64, 0, len(aggregation))
	ys := make([]float64, 0, len(aggregation))
	for _, a := range aggregation {
		t, err := time.Parse(DateFormat, a.Date)
		if err != nil {
			continue
		}
		xs = append(xs, float64(t.Unix()))
		ys = append(ys, a.Amount)
	}

	if len(xs) == 0 {
		return Trendline{}
	}

	if !varies(xs) {
		return Trendline{Intercept: stat.Mean(ys, nil)}
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return Trendline{Slope: slope, Intercept: intercept}
}

func varies(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// WithDerived fills Change and Trendline when the backend did not send them.
func (c Cost) WithDerived() Cost {
	if c.Change == nil && len(c.Aggregation) > 0 {
		change := ChangeOf(c.Aggregation)
		c.Change = &change
	}
	if c.Trendline == nil && len(c.Aggregation) > 1 {
		trend := TrendlineOf(c.Aggregation)
		c.Trendline = &trend
	}
	return c
}

// Project is a billable project belonging to a group.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// DisplayName retorna o nome do projeto, ou o ID quando não há nome.
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Group is an organizational billing unit.
type Group struct {
	ID string `json:"id"`
}
