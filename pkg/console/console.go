package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
)

// barWidth é a largura máxima, em caracteres, de uma barra do gráfico diário.
const barWidth = 40

// Console implementa o ConsoleInterface sobre o pterm.
type Console struct {
	out io.Writer
	// spinner só é animado quando a saída é o terminal
	interactive bool
}

// NewConsole cria um Console que escreve na saída padrão.
func NewConsole() *Console {
	return &Console{out: os.Stdout, interactive: true}
}

// NewConsoleWithWriter cria um Console que escreve em w, sem animações.
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) LogInfo(format string, a ...interface{}) {
	c.prefixed(pterm.Info, format, a...)
}

func (c *Console) LogWarning(format string, a ...interface{}) {
	c.prefixed(pterm.Warning, format, a...)
}

func (c *Console) LogError(format string, a ...interface{}) {
	c.prefixed(pterm.Error, format, a...)
}

func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.prefixed(pterm.Success, format, a...)
}

func (c *Console) prefixed(printer pterm.PrefixPrinter, format string, a ...interface{}) {
	fmt.Fprint(c.out, printer.Sprintfln(format, a...))
}

// Status inicia um spinner com a mensagem. Fora do terminal a mensagem
// é apenas impressa uma vez.
func (c *Console) Status(message string) types.StatusHandle {
	if !c.interactive {
		c.LogInfo("%s", message)
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.Start(message)
	return &statusHandle{spinner: spinner}
}

type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table acumula cabeçalho e linhas e renderiza uma tabela em caixa.
type Table struct {
	data pterm.TableData
}

func (c *Console) CreateTable() types.TableInterface {
	return &Table{data: pterm.TableData{{}}}
}

func (t *Table) AddColumn(name string, _ ...interface{}) {
	t.data[0] = append(t.data[0], name)
}

func (t *Table) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.data = append(t.data, row)
}

func (t *Table) Render() string {
	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(t.data).
		Srender()
	return rendered
}

// Panel exibe um conteúdo dentro de uma caixa com título.
func (c *Console) Panel(title string, content string) {
	box := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(content)
	fmt.Fprintln(c.out, "\n"+box)
}

// DisplayDailyBars desenha o custo diário como barras coloridas pela
// variação em relação ao dia anterior.
func (c *Console) DisplayDailyBars(title string, bars []types.DailyBar) {
	peak := 0.0
	for _, b := range bars {
		peak = math.Max(peak, b.Amount)
	}
	if peak == 0 {
		c.LogWarning("All costs are zero for this period")
		return
	}

	rows := pterm.TableData{{"Date", "Cost", "", "DoD Change"}}
	for i, b := range bars {
		color, change := pterm.FgBlue, ""
		if i > 0 {
			color, change = dayOverDay(bars[i-1].Amount, b.Amount)
		}

		label := b.Label
		if label == "" {
			label = fmt.Sprintf("$%.2f", b.Amount)
		}

		bar := strings.Repeat("█", int(b.Amount/peak*barWidth))
		rows = append(rows, []string{b.Date, label, color.Sprint(bar), change})
	}

	rendered, _ := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	c.Panel(title, rendered)
}

// dayOverDay classifica a variação entre dois dias: vermelho quando sobe,
// verde quando cai e amarelo quando fica estável.
func dayOverDay(previous, current float64) (pterm.Color, string) {
	if previous < 0.01 {
		if current < 0.01 {
			return pterm.FgYellow, pterm.FgYellow.Sprint("0%")
		}
		return pterm.FgRed, pterm.FgRed.Sprint("N/A")
	}

	percent := (current - previous) / previous * 100
	switch {
	case math.Abs(percent) < 0.01:
		return pterm.FgYellow, pterm.FgYellow.Sprint("0%")
	case percent > 999:
		return pterm.FgRed, pterm.FgRed.Sprint(">+999%")
	case percent < -999:
		return pterm.FgGreen, pterm.FgGreen.Sprint(">-999%")
	case percent > 0:
		return pterm.FgRed, pterm.FgRed.Sprintf("+%.2f%%", percent)
	default:
		return pterm.FgGreen, pterm.FgGreen.Sprintf("%.2f%%", percent)
	}
}
