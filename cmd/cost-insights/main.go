package main

import (
	"fmt"
	"os"

	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driven/config"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driving/cli"
	"github.com/diillson/cost-insights-dashboard-go/internal/adapter/driving/tui"
	"github.com/diillson/cost-insights-dashboard-go/pkg/console"
	"github.com/diillson/cost-insights-dashboard-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version, config.NewConfigRepository(""))

	// Os repositórios dependem da configuração resolvida, então são criados sob demanda
	app.SetUseCaseFactory(newFactory(console.NewConsole()))
	app.SetBrowseFunc(tui.Run)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
