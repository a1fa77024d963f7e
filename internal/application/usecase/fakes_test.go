package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
)

// fakeCostRepo registra as chamadas recebidas; err[method] força uma falha.
type fakeCostRepo struct {
	mu    sync.Mutex
	calls []string
	err   map[string]error

	billingDate string
	groups      []entity.Group
	projects    []entity.Project
	alerts      []entity.Alert
	metric      entity.MetricData
	cost        entity.Cost
	// block, quando definido, segura GetGroupDailyCost até ser fechado
	block chan struct{}
}

func newFakeCostRepo() *fakeCostRepo {
	return &fakeCostRepo{
		err:         map[string]error{},
		billingDate: "2020-09-30",
		projects:    []entity.Project{{ID: "p1", Name: "Checkout"}},
		alerts:      []entity.Alert{{Title: "Costs went up"}},
		metric:      entity.MetricData{ID: "dau", Format: entity.MetricFormatNumber},
		cost: entity.Cost{ID: "team-a", Aggregation: []entity.DateAggregation{
			{Date: "2020-09-29", Amount: 100},
			{Date: "2020-09-30", Amount: 150},
		}},
	}
}

func (f *fakeCostRepo) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	name, _, _ := strings.Cut(call, "(")
	return f.err[name]
}

func (f *fakeCostRepo) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if strings.HasPrefix(c, name+"(") {
			return true
		}
	}
	return false
}

func (f *fakeCostRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCostRepo) GetLastCompleteBillingDate(_ context.Context) (string, error) {
	if err := f.record("GetLastCompleteBillingDate()"); err != nil {
		return "", err
	}
	return f.billingDate, nil
}

func (f *fakeCostRepo) GetUserGroups(_ context.Context, userID string) ([]entity.Group, error) {
	if err := f.record(fmt.Sprintf("GetUserGroups(%s)", userID)); err != nil {
		return nil, err
	}
	return f.groups, nil
}

func (f *fakeCostRepo) GetGroupProjects(_ context.Context, group string) ([]entity.Project, error) {
	if err := f.record(fmt.Sprintf("GetGroupProjects(%s)", group)); err != nil {
		return nil, err
	}
	return f.projects, nil
}

func (f *fakeCostRepo) GetAlerts(_ context.Context, group string) ([]entity.Alert, error) {
	if err := f.record(fmt.Sprintf("GetAlerts(%s)", group)); err != nil {
		return nil, err
	}
	return f.alerts, nil
}

func (f *fakeCostRepo) GetDailyMetricData(_ context.Context, metric string, intervals string) (entity.MetricData, error) {
	if err := f.record(fmt.Sprintf("GetDailyMetricData(%s,%s)", metric, intervals)); err != nil {
		return entity.MetricData{}, err
	}
	return f.metric, nil
}

func (f *fakeCostRepo) GetProjectDailyCost(_ context.Context, project string, intervals string) (entity.Cost, error) {
	if err := f.record(fmt.Sprintf("GetProjectDailyCost(%s,%s)", project, intervals)); err != nil {
		return entity.Cost{}, err
	}
	return f.cost, nil
}

func (f *fakeCostRepo) GetGroupDailyCost(ctx context.Context, group string, intervals string) (entity.Cost, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return entity.Cost{}, ctx.Err()
		}
	}
	if err := f.record(fmt.Sprintf("GetGroupDailyCost(%s,%s)", group, intervals)); err != nil {
		return entity.Cost{}, err
	}
	return f.cost, nil
}

type fakeFlags map[string]bool

func (f fakeFlags) IsActive(flag string) bool { return f[flag] }

type fakeCatalog struct {
	entities []entity.Entity
	err      error
	filters  []entity.EntityFilter
}

func (f *fakeCatalog) GetEntities(_ context.Context, filter entity.EntityFilter) ([]entity.Entity, error) {
	f.filters = append(f.filters, filter)
	return f.entities, f.err
}

type fakeCaller struct {
	arn string
	err error
}

func (f fakeCaller) GetCallerARN(_ context.Context, _ string) (string, error) {
	return f.arn, f.err
}

type fakeExport struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeExport) add(kind string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, kind)
	return "/tmp/report." + kind, nil
}

func (f *fakeExport) ExportDashboardToCSV(_ entity.DashboardData, _ entity.Currency, _ string, _ string) (string, error) {
	return f.add("csv")
}

func (f *fakeExport) ExportDashboardToJSON(_ entity.DashboardData, _ string, _ string) (string, error) {
	return f.add("json")
}

func (f *fakeExport) ExportDashboardToPDF(_ entity.DashboardData, _ entity.Currency, _ string, _ string) (string, error) {
	return f.add("pdf")
}

// fakeConsole acumula tudo que seria exibido.
type fakeConsole struct {
	mu     sync.Mutex
	out    strings.Builder
	warns  []string
	panels []string
}

func (c *fakeConsole) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.WriteString(s)
}

func (c *fakeConsole) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

func (c *fakeConsole) Print(a ...interface{})                 { c.write(fmt.Sprint(a...)) }
func (c *fakeConsole) Printf(format string, a ...interface{}) { c.write(fmt.Sprintf(format, a...)) }
func (c *fakeConsole) Println(a ...interface{})               { c.write(fmt.Sprintln(a...)) }

func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.write(fmt.Sprintf(format, a...) + "\n")
}

func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	c.mu.Lock()
	c.warns = append(c.warns, msg)
	c.mu.Unlock()
	c.write(msg + "\n")
}

func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.write(fmt.Sprintf(format, a...) + "\n")
}

func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.write(fmt.Sprintf(format, a...) + "\n")
}

func (c *fakeConsole) Status(_ string) types.StatusHandle { return fakeStatus{} }

func (c *fakeConsole) CreateTable() types.TableInterface { return &fakeTable{} }

func (c *fakeConsole) Panel(title string, content string) {
	c.mu.Lock()
	c.panels = append(c.panels, title)
	c.mu.Unlock()
	c.write(title + "\n" + content + "\n")
}

func (c *fakeConsole) DisplayDailyBars(title string, bars []types.DailyBar) {
	c.write(fmt.Sprintf("%s: %d bars\n", title, len(bars)))
}

type fakeStatus struct{}

func (fakeStatus) Update(string) {}
func (fakeStatus) Stop()         {}

type fakeTable struct {
	rows []string
}

func (t *fakeTable) AddColumn(name string, _ ...interface{}) {}

func (t *fakeTable) AddRow(cells ...interface{}) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, strings.Join(parts, " | "))
}

func (t *fakeTable) Render() string { return strings.Join(t.rows, "\n") + "\n" }
