package cli

import (
	"fmt"

	"github.com/diillson/cost-insights-dashboard-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
   ____          _     ___           _       _     _
  / ___|___  ___| |_  |_ _|_ __  ___(_) __ _| |__ | |_ ___
 | |   / _ \/ __| __|  | || '_ \/ __| |/ _' | '_ \| __/ __|
 | |__| (_) \__ \ |_   | || | | \__ \ | (_| | | | | |_\__ \
  \____\___/|___/\__| |___|_| |_|___/_|\__, |_| |_|\__|___/
                                       |___/
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))
	fmt.Println(blue(fmt.Sprintf("Cost Insights Dashboard CLI (v%s)", version.FormatVersion())))
}
