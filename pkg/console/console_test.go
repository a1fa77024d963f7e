package console

import (
	"bytes"
	"testing"

	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestConsole_Logs(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.LogInfo("loading %s", "team-a")
	c.LogWarning("careful")
	c.Println("plain")

	out := buf.String()
	assert.Contains(t, out, "loading team-a")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "plain\n")
}

func TestConsole_StatusWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	status := c.Status("Loading cost insights...")
	status.Update("still loading")
	status.Stop()

	assert.Contains(t, buf.String(), "Loading cost insights...")
}

func TestTable_Render(t *testing.T) {
	table := NewConsoleWithWriter(&bytes.Buffer{}).CreateTable()
	table.AddColumn("Project")
	table.AddColumn("ID")
	table.AddRow("Checkout", "p1")
	table.AddRow("Search", 42)

	out := table.Render()
	assert.Contains(t, out, "Project")
	assert.Contains(t, out, "Checkout")
	assert.Contains(t, out, "42")
}

func TestDisplayDailyBars(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWithWriter(&buf)

	c.DisplayDailyBars("Daily Cost", []types.DailyBar{
		{Date: "2020-09-29", Amount: 100, Label: "$100.00"},
		{Date: "2020-09-30", Amount: 150},
	})

	out := buf.String()
	assert.Contains(t, out, "Daily Cost")
	assert.Contains(t, out, "$100.00")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "+50.00%")
}

func TestDisplayDailyBars_AllZero(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleWithWriter(&buf).DisplayDailyBars("Daily Cost", []types.DailyBar{{Date: "2020-09-30"}})
	assert.Contains(t, buf.String(), "All costs are zero")
}

func TestDayOverDay(t *testing.T) {
	color, change := dayOverDay(100, 50)
	assert.Equal(t, pterm.FgGreen, color)
	assert.Contains(t, change, "-50.00%")

	color, _ = dayOverDay(100, 100)
	assert.Equal(t, pterm.FgYellow, color)

	_, change = dayOverDay(0, 10)
	assert.Contains(t, change, "N/A")

	_, change = dayOverDay(1, 100)
	assert.Contains(t, change, ">+999%")
}
