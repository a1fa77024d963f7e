package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	Print(a ...interface{})
	Printf(format string, a ...interface{})
	Println(a ...interface{})

	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle

	CreateTable() TableInterface
	Panel(title string, content string)
	DisplayDailyBars(title string, bars []DailyBar)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// DailyBar representa um ponto diário do gráfico de barras.
// Label é o valor já formatado na moeda selecionada.
type DailyBar struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Label  string  `json:"label"`
}
