// Package tui is the interactive terminal dashboard. The UI owns the page
// filters; every change reloads the dashboard in the background and the
// result is applied through QueueUpdateDraw, so tview serializes all
// state updates on its event loop.
package tui

import (
	"context"
	"fmt"

	"github.com/diillson/cost-insights-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const noMetric = "None"

// Dashboard is the interactive cost insights view.
type Dashboard struct {
	ctx       context.Context
	dashboard *usecase.DashboardUseCase
	currency  entity.CurrencyKind

	app      *tview.Application
	header   *tview.TextView
	groups   *tview.List
	projects *tview.DropDown
	duration *tview.DropDown
	metric   *tview.DropDown
	content  *tview.TextView
	footer   *tview.TextView

	// nil quando o seletor de moedas está desligado
	currencies *tview.DropDown

	// acessados apenas no loop de eventos do tview
	filters        entity.PageFilters
	projectOptions []string
	syncing        bool
}

// Run builds the UI and blocks until the user quits.
func Run(ctx context.Context, dashboard *usecase.DashboardUseCase, args *types.CLIArgs) error {
	filters, groups, err := initialFilters(ctx, dashboard, args)
	if err != nil {
		return err
	}

	// avisos de moeda são impressos antes do tview assumir o terminal
	currency := dashboard.SelectCurrency(args.Currency, filters.Duration)

	d := newDashboard(ctx, dashboard, currency.Kind, filters, groups)
	d.reload()
	return d.app.Run()
}

// initialFilters resolve os filtros iniciais e a lista de grupos exibida.
func initialFilters(ctx context.Context, dashboard *usecase.DashboardUseCase, args *types.CLIArgs) (entity.PageFilters, []string, error) {
	filters, err := usecase.FiltersFromArgs(args)
	if err != nil {
		return entity.PageFilters{}, nil, err
	}

	groups := []string{}
	if filters.HasGroup() {
		groups = append(groups, filters.Group)
	}
	if args.UserID != "" {
		userGroups, err := dashboard.ResolveGroups(ctx, args.UserID)
		if err != nil {
			logging.Warn("could not resolve user groups", zap.String("user", args.UserID), zap.Error(err))
		}
		for _, g := range userGroups {
			if g.ID != filters.Group {
				groups = append(groups, g.ID)
			}
		}
	}
	if !filters.HasGroup() && len(groups) > 0 {
		filters.Group = groups[0]
	}

	return dashboard.WithDefaultMetric(filters), groups, nil
}

func newDashboard(ctx context.Context, dashboard *usecase.DashboardUseCase, currency entity.CurrencyKind, filters entity.PageFilters, groups []string) *Dashboard {
	setupTheme()

	d := &Dashboard{
		ctx:       ctx,
		dashboard: dashboard,
		currency:  currency,
		filters:   filters,
		app:       tview.NewApplication(),
	}

	d.header = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	d.header.SetBorder(true)

	d.groups = tview.NewList().ShowSecondaryText(false)
	d.groups.SetBorder(true).SetTitle(" Groups ")
	for _, g := range groups {
		group := g
		d.groups.AddItem(group, "", 0, func() { d.selectGroup(group) })
	}
	for i, g := range groups {
		if g == filters.Group {
			d.groups.SetCurrentItem(i)
		}
	}

	d.projects = tview.NewDropDown().SetLabel("Project: ")
	d.projects.SetBorder(true)
	d.setProjectOptions(nil)

	durationLabels := []string{}
	current := 0
	for i, dur := range entity.Durations() {
		durationLabels = append(durationLabels, dur.Label())
		if dur == filters.Duration {
			current = i
		}
	}
	d.duration = tview.NewDropDown().SetLabel("Period: ")
	d.duration.SetBorder(true)
	d.duration.SetOptions(durationLabels, func(_ string, index int) {
		if index < 0 || index >= len(entity.Durations()) {
			return
		}
		selected := entity.Durations()[index]
		if selected == d.filters.Duration {
			return
		}
		d.filters = d.filters.WithDuration(selected)
		d.reload()
	})
	d.duration.SetCurrentOption(current)

	d.metric = tview.NewDropDown().SetLabel("Metric: ")
	d.metric.SetBorder(true)
	metricLabels := []string{noMetric}
	for _, m := range dashboard.Metrics() {
		metricLabels = append(metricLabels, m.Name)
	}
	d.metric.SetOptions(metricLabels, func(_ string, index int) {
		if d.syncing {
			return
		}
		kind := ""
		if metrics := d.dashboard.Metrics(); index > 0 && index <= len(metrics) {
			kind = metrics[index-1].Kind
		}
		if kind == d.filters.Metric {
			return
		}
		d.filters = d.filters.WithMetric(kind)
		d.reload()
	})
	d.syncMetric()

	if currencies := dashboard.Currencies(); currencies != nil {
		d.currencies = tview.NewDropDown().SetLabel("Currency: ")
		d.currencies.SetBorder(true)
		labels := make([]string, len(currencies))
		selected := 0
		for i, c := range currencies {
			labels[i] = c.Label
			if c.Kind == currency {
				selected = i
			}
		}
		d.currencies.SetOptions(labels, func(_ string, index int) {
			if d.syncing || index < 0 || index >= len(currencies) {
				return
			}
			d.currency = currencies[index].Kind
			d.render()
		})
		d.syncing = true
		d.currencies.SetCurrentOption(selected)
		d.syncing = false
	}

	d.content = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	d.content.SetBorder(true).SetTitle(" Cost Insights ")

	d.footer = tview.NewTextView().SetDynamicColors(true).
		SetText("[::b]tab[::-] focus  [::b]r[::-] reload  [::b]q[::-] quit")

	controls := tview.NewFlex().
		AddItem(d.projects, 0, 1, false).
		AddItem(d.duration, 0, 1, false).
		AddItem(d.metric, 0, 1, false)
	focusOrder := []tview.Primitive{d.groups, d.projects, d.duration, d.metric}
	if d.currencies != nil {
		controls.AddItem(d.currencies, 0, 1, false)
		focusOrder = append(focusOrder, d.currencies)
	}
	focusOrder = append(focusOrder, d.content)

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(controls, 3, 0, false).
		AddItem(d.content, 0, 1, false)

	body := tview.NewFlex().
		AddItem(d.groups, 24, 0, true).
		AddItem(right, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.header, 3, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(d.footer, 1, 0, false)

	focused := 0

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			focused = (focused + 1) % len(focusOrder)
			d.app.SetFocus(focusOrder[focused])
			return nil
		case tcell.KeyRune:
			// Não intercepta teclas enquanto um dropdown está aberto
			if d.dropDownOpen() {
				return event
			}
			switch event.Rune() {
			case 'q':
				d.app.Stop()
				return nil
			case 'r':
				d.reload()
				return nil
			}
		}
		return event
	})

	d.app.SetRoot(root, true).SetFocus(d.groups)
	d.renderHeader()
	return d
}

func (d *Dashboard) selectGroup(group string) {
	if group == d.filters.Group {
		return
	}
	d.filters = d.dashboard.WithDefaultMetric(d.filters.WithGroup(group))
	d.setProjectOptions(nil)
	d.syncMetric()
	d.reload()
}

// syncMetric posiciona o seletor de métrica no filtro atual.
func (d *Dashboard) syncMetric() {
	selected := 0
	for i, m := range d.dashboard.Metrics() {
		if m.Kind == d.filters.Metric {
			selected = i + 1
		}
	}
	d.syncing = true
	defer func() { d.syncing = false }()
	d.metric.SetCurrentOption(selected)
}

func (d *Dashboard) dropDownOpen() bool {
	open := d.projects.IsOpen() || d.duration.IsOpen() || d.metric.IsOpen()
	return open || (d.currencies != nil && d.currencies.IsOpen())
}

// setProjectOptions troca as opções do dropdown sem disparar um novo carregamento.
func (d *Dashboard) setProjectOptions(projects []entity.Project) {
	options := []string{entity.AllProjects}
	for _, p := range projects {
		options = append(options, p.ID)
	}

	d.syncing = true
	defer func() { d.syncing = false }()

	d.projectOptions = options
	d.projects.SetOptions(options, func(text string, _ int) {
		if d.syncing {
			return
		}
		if text == entity.AllProjects {
			text = ""
		}
		if text == d.filters.Project {
			return
		}
		d.filters = d.dashboard.WithDefaultMetric(d.filters.WithProject(text))
		d.syncMetric()
		d.reload()
	})

	selected := 0
	for i, o := range options {
		if o == d.filters.Project {
			selected = i
		}
	}
	d.projects.SetCurrentOption(selected)
}

// reload dispara um carregamento em background para os filtros atuais.
func (d *Dashboard) reload() {
	filters := d.filters
	d.content.SetText("[yellow]Loading cost insights...[-]")
	d.renderHeader()

	go func() {
		err := d.dashboard.Load(d.ctx, filters)
		if err != nil {
			logging.Debug("dashboard load finished with error", zap.Error(err))
		}

		d.app.QueueUpdateDraw(func() {
			// um carregamento mais recente já está em andamento
			if current, _, _ := d.dashboard.State(); current != d.filters {
				return
			}
			d.render()
		})
	}()
}

// render mostra o estado atual do carregamento. Roda no loop de eventos.
func (d *Dashboard) render() {
	current, state, data := d.dashboard.State()
	currency, _ := d.dashboard.CurrencyFor(d.currency, current.Duration)
	if data != nil && !sameProjects(d.projectOptions, data.Projects) {
		d.setProjectOptions(data.Projects)
	}
	d.content.SetText(RenderText(current, state, data, currency))
	d.content.ScrollToBeginning()
	d.renderHeader()
}

func (d *Dashboard) renderHeader() {
	scope := "no group selected"
	if d.filters.HasGroup() {
		scope = d.filters.Group
		if d.filters.HasProject() {
			scope += " / " + d.filters.Project
		}
	}
	d.header.SetText(fmt.Sprintf("[green::b]Cost Insights[-::-]  %s  [::d]%s[-::-]", scope, d.filters.Duration.Label()))
}

func sameProjects(options []string, projects []entity.Project) bool {
	if len(options) != len(projects)+1 {
		return false
	}
	for i, p := range projects {
		if options[i+1] != p.ID {
			return false
		}
	}
	return true
}

func setupTheme() {
	tview.Styles = tview.Theme{
		PrimitiveBackgroundColor:    tcell.NewRGBColor(35, 33, 54),
		ContrastBackgroundColor:     tcell.NewRGBColor(42, 39, 63),
		MoreContrastBackgroundColor: tcell.NewRGBColor(57, 53, 82),
		BorderColor:                 tcell.NewRGBColor(110, 106, 134),
		TitleColor:                  tcell.NewRGBColor(235, 188, 186),
		GraphicsColor:               tcell.NewRGBColor(156, 207, 216),
		PrimaryTextColor:            tcell.NewRGBColor(224, 222, 244),
		SecondaryTextColor:          tcell.NewRGBColor(144, 140, 170),
		TertiaryTextColor:           tcell.NewRGBColor(110, 106, 134),
		InverseTextColor:            tcell.NewRGBColor(35, 33, 54),
		ContrastSecondaryTextColor:  tcell.NewRGBColor(224, 222, 244),
	}
}
