package entity

// MetricFormat controls how metric amounts are rendered.
type MetricFormat string

const (
	MetricFormatNumber MetricFormat = "number"
	MetricFormatPrice  MetricFormat = "price"
)

// Metric is a business metric costs can be compared against,
// for example daily active users.
type Metric struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Default bool   `json:"default,omitempty" yaml:"default" toml:"default"`
}

// MetricData is the daily series of a metric.
type MetricData struct {
	ID          string            `json:"id"`
	Format      MetricFormat      `json:"format"`
	Aggregation []DateAggregation `json:"aggregation"`
	Change      ChangeStatistic   `json:"change"`
}

// DefaultMetric returns the metric flagged as default, if any.
func DefaultMetric(metrics []Metric) (Metric, bool) {
	for _, m := range metrics {
		if m.Default {
			return m, true
		}
	}
	return Metric{}, false
}
