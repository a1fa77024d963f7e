package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateFormat, s)
	require.NoError(t, err)
	return d
}

func TestIntervalsOf(t *testing.T) {
	tests := []struct {
		name     string
		duration Duration
		end      string
		want     string
	}{
		{"30 days", DurationP30D, "2020-09-30", "R2/P30D/2020-10-01"},
		{"7 days", DurationP7D, "2021-01-31", "R2/P7D/2021-02-01"},
		{"90 days over year end", DurationP90D, "2020-12-31", "R2/P90D/2021-01-01"},
		{"quarter on quarter end", DurationP3M, "2020-09-30", "R2/P3M/2020-10-01"},
		{"quarter mid quarter", DurationP3M, "2020-08-15", "R2/P3M/2020-07-01"},
		{"quarter first day", DurationP3M, "2021-01-01", "R2/P3M/2021-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalsOf(tt.duration, date(t, tt.end), 2))
		})
	}
}

func TestIntervalsOf_DefaultsRepetition(t *testing.T) {
	assert.Equal(t, "R2/P7D/2020-10-01", IntervalsOf(DurationP7D, date(t, "2020-09-30"), 0))
	assert.Equal(t, "R3/P7D/2020-10-01", IntervalsOf(DurationP7D, date(t, "2020-09-30"), 3))
}

func TestInclusiveEndDateOf_Quarter(t *testing.T) {
	assert.Equal(t, date(t, "2020-06-30"), InclusiveEndDateOf(DurationP3M, date(t, "2020-08-15")))
	assert.Equal(t, date(t, "2020-12-31"), InclusiveEndDateOf(DurationP3M, date(t, "2020-12-31")))
	assert.Equal(t, date(t, "2020-08-15"), InclusiveEndDateOf(DurationP30D, date(t, "2020-08-15")))
}

func TestParseIntervals(t *testing.T) {
	w, err := ParseIntervals("R2/P30D/2020-10-01")
	require.NoError(t, err)
	assert.Equal(t, date(t, "2020-08-02"), w.Start)
	assert.Equal(t, date(t, "2020-10-01"), w.End)

	w, err = ParseIntervals("R2/P3M/2020-07-01")
	require.NoError(t, err)
	assert.Equal(t, date(t, "2020-01-01"), w.Start)
	assert.Equal(t, date(t, "2020-07-01"), w.End)
}

func TestParseIntervals_Invalid(t *testing.T) {
	for _, in := range []string{"", "P30D/2020-10-01", "R0/P30D/2020-10-01", "R2/P1Y/2020-10-01", "R2/P30D/october"} {
		_, err := ParseIntervals(in)
		assert.Error(t, err, in)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration(" p90d ")
	require.NoError(t, err)
	assert.Equal(t, DurationP90D, d)

	_, err = ParseDuration("P1Y")
	assert.Error(t, err)
}

func TestPageFilters(t *testing.T) {
	f := PageFilters{Group: "team-a", Project: "p1", Duration: DurationP7D, Metric: "dau"}

	assert.True(t, f.HasProject())
	assert.False(t, f.WithProject(AllProjects).HasProject())
	assert.False(t, f.WithProject("").HasProject())

	g := f.WithGroup("team-b")
	assert.Equal(t, PageFilters{Group: "team-b", Duration: DurationP7D}, g)

	p := f.WithProject("p2")
	assert.Equal(t, "p2", p.Project)
	assert.False(t, p.HasMetric())

	assert.Equal(t, DurationP3M, f.WithDuration(DurationP3M).Duration)
	assert.False(t, PageFilters{}.HasGroup())
}
