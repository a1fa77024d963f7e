package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl grava relatórios do dashboard em disco.
type ExportRepositoryImpl struct {
	now func() time.Time
}

// NewExportRepository returns an exporter stamping files with the current time.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

// ExportDashboardToCSV writes one row per day, plus one column per service
// grouping when the backend returned them.
func (r *ExportRepositoryImpl) ExportDashboardToCSV(data entity.DashboardData, currency entity.Currency, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	services := groupingNames(data.DailyCost)
	headers := []string{"Scope", "Date", "Cost (USD)", fmt.Sprintf("Cost (%s)", currency.Label)}
	headers = append(headers, services...)
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	if data.DailyCost != nil {
		byService := make(map[string]map[string]float64, len(services))
		for _, s := range services {
			byService[s] = make(map[string]float64)
			for _, point := range data.DailyCost.Groupings[s] {
				byService[s][point.Date] = point.Amount
			}
		}

		for _, point := range data.DailyCost.Aggregation {
			record := []string{
				scopeOf(data.Filters),
				point.Date,
				fmt.Sprintf("%.2f", point.Amount),
				currency.Convert(point.Amount).StringFixed(2),
			}
			for _, s := range services {
				record = append(record, fmt.Sprintf("%.2f", byService[s][point.Date]))
			}
			if err := writer.Write(record); err != nil {
				return "", fmt.Errorf("error writing CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDashboardToJSON(data entity.DashboardData, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportDashboardToPDF(data entity.DashboardData, currency entity.Currency, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	doc := newPDFReport()
	doc.title(fmt.Sprintf("Cost Insights: %s", scopeOf(data.Filters)),
		fmt.Sprintf("%s (%s), billing complete through %s", data.Filters.Duration.Label(), data.Intervals, data.LastCompleteBillingDate))

	// Resumo: total e variação no período
	var change *entity.ChangeStatistic
	total := 0.0
	if data.DailyCost != nil {
		total = data.DailyCost.Total()
		change = data.DailyCost.Change
	}
	doc.summary(currency.Format(total), change, currency)

	if data.DailyCost != nil {
		daily := make([]string, 0, len(data.DailyCost.Aggregation))
		for _, point := range data.DailyCost.Aggregation {
			daily = append(daily, fmt.Sprintf("%s: %s", point.Date, currency.Format(point.Amount)))
		}
		doc.section("Daily Cost", daily)

		services := []string{}
		for _, s := range groupingNames(data.DailyCost) {
			services = append(services, fmt.Sprintf("%s: %s", s, currency.Format(entity.TotalOf(data.DailyCost.Groupings[s]))))
		}
		doc.section("Cost By Service", services)
	}

	if data.MetricData != nil {
		doc.section("Metric", []string{fmt.Sprintf("%s: %s", data.MetricData.ID, ratioText(data.MetricData.Change.Ratio))})
	}

	projects := make([]string, 0, len(data.Projects))
	for _, p := range data.Projects {
		projects = append(projects, p.DisplayName())
	}
	doc.section("Projects", projects)

	items := []string{}
	for _, a := range entity.ActiveAlerts(data.Alerts) {
		items = append(items, fmt.Sprintf("%s\n  %s\n", a.Title, a.Subtitle))
	}
	doc.section("Action Items", items)

	doc.footer(fmt.Sprintf("Generated by Cost Insights Dashboard (Go) | %s", r.now().Format(entity.DateFormat)))

	if err := doc.pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

type rgb struct{ r, g, b int }

var (
	titleFill  = rgb{40, 40, 40}
	titleText  = rgb{255, 255, 255}
	subtleFill = rgb{240, 240, 240}
	bodyText   = rgb{50, 50, 50}
	ruleColor  = rgb{200, 200, 200}
	increase   = rgb{192, 0, 0}
	decrease   = rgb{0, 128, 0}
	footerText = rgb{128, 128, 128}
)

// pdfReport escreve o relatório em uma página A4 com largura útil de 190mm.
type pdfReport struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newPDFReport() *pdfReport {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	return &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *pdfReport) text(c rgb)   { d.pdf.SetTextColor(c.r, c.g, c.b) }
func (d *pdfReport) fill(c rgb)   { d.pdf.SetFillColor(c.r, c.g, c.b) }
func (d *pdfReport) stroke(c rgb) { d.pdf.SetDrawColor(c.r, c.g, c.b) }

func (d *pdfReport) title(heading, period string) {
	d.fill(titleFill)
	d.text(titleText)
	d.pdf.SetFont("Arial", "B", 14)
	d.pdf.CellFormat(0, 12, d.tr("  "+heading), "", 1, "L", true, 0, "")

	d.fill(subtleFill)
	d.text(bodyText)
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.CellFormat(0, 8, d.tr("  "+period), "", 1, "L", true, 0, "")
	d.pdf.Ln(10)
}

func (d *pdfReport) summary(total string, change *entity.ChangeStatistic, currency entity.Currency) {
	d.pdf.SetFont("Arial", "B", 16)
	d.pdf.CellFormat(95, 12, d.tr(total), "", 0, "L", false, 0, "")

	label := "N/A"
	d.text(decrease)
	if change != nil {
		label = strings.TrimSpace(fmt.Sprintf("%s %s", signed(change.Amount, currency), ratioText(change.Ratio)))
		if change.Amount > 0 {
			d.text(increase)
		}
	}
	d.pdf.SetFont("Arial", "", 10)
	d.pdf.CellFormat(95, 12, d.tr(label), "", 1, "L", false, 0, "")
	d.text(bodyText)
	d.pdf.Ln(6)
}

// section escreve um título com régua e as linhas abaixo. Seções vazias são omitidas.
func (d *pdfReport) section(heading string, lines []string) {
	if len(lines) == 0 {
		return
	}

	d.pdf.SetFont("Arial", "B", 12)
	d.text(rgb{})
	d.pdf.Cell(0, 8, heading)
	d.pdf.Ln(7)

	d.stroke(ruleColor)
	x, y := d.pdf.GetXY()
	d.pdf.Line(x, y, x+190, y)
	d.pdf.Ln(4)

	d.pdf.SetFont("Arial", "", 10)
	d.text(bodyText)
	d.pdf.MultiCell(190, 5, d.tr(strings.TrimSpace(strings.Join(lines, "\n"))), "", "L", false)
	d.pdf.Ln(8)
}

func (d *pdfReport) footer(line string) {
	d.pdf.SetY(-15)
	d.pdf.SetFont("Arial", "I", 8)
	d.text(footerText)
	d.pdf.CellFormat(0, 10, d.tr(line), "", 0, "L", false, 0, "")
}

// generateFilename monta <base>_<timestamp>.<ext> dentro de dir, criando o diretório.
// Um dir vazio usa o diretório corrente.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory %q: %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// groupingNames retorna os serviços ordenados pelo custo total, do maior para o menor.
func groupingNames(cost *entity.Cost) []string {
	if cost == nil || len(cost.Groupings) == 0 {
		return nil
	}

	names := make([]string, 0, len(cost.Groupings))
	for name := range cost.Groupings {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ti, tj := entity.TotalOf(cost.Groupings[names[i]]), entity.TotalOf(cost.Groupings[names[j]])
		if ti == tj {
			return names[i] < names[j]
		}
		return ti > tj
	})
	return names
}

func scopeOf(filters entity.PageFilters) string {
	if filters.HasProject() {
		return filters.Group + " / " + filters.Project
	}
	return filters.Group
}

func signed(amount float64, currency entity.Currency) string {
	if amount < 0 {
		return "-" + currency.Format(-amount)
	}
	return "+" + currency.Format(amount)
}

func ratioText(ratio *float64) string {
	if ratio == nil {
		return ""
	}
	return fmt.Sprintf("(%+.2f%%)", *ratio*100)
}
