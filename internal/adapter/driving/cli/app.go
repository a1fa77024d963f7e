package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/diillson/cost-insights-dashboard-go/internal/application/usecase"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/logging"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/diillson/cost-insights-dashboard-go/pkg/version"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// UseCaseFactory builds the use cases once the configuration is resolved.
type UseCaseFactory interface {
	Dashboard(cfg *types.Config) (*usecase.DashboardUseCase, error)
	Identity(cfg *types.Config) (*usecase.IdentityUseCase, error)
}

// BrowseFunc starts the interactive dashboard.
type BrowseFunc func(ctx context.Context, dashboard *usecase.DashboardUseCase, args *types.CLIArgs) error

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	factory    UseCaseFactory
	browse     BrowseFunc
	version    string

	// checkVersion roda antes do dashboard para não intercalar com a saída
	checkVersion func(current string)
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository) *CLIApp {
	app := &CLIApp{
		version:      versionStr,
		configRepo:   configRepo,
		checkVersion: checkLatestVersion,
	}

	rootCmd := &cobra.Command{
		Use:           "cost-insights",
		Short:         "Cost Insights Dashboard CLI",
		Long:          "Shows the cloud cost of a group or project over time, with its action items and business metrics.",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runDashboard,
	}

	rootCmd.SetVersionTemplate(`{{printf "Cost Insights Dashboard version: %s\n" .Version}}`)

	// Flags globais
	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("backend", "", "Cost data backend: http or aws (default: http)")
	rootCmd.PersistentFlags().String("cost-insights-url", "", "Base URL of the cost insights API (http backend)")
	rootCmd.PersistentFlags().String("catalog-url", "", "Base URL of the catalog API")
	rootCmd.PersistentFlags().String("catalog-token", "", "Bearer token for the catalog API")
	rootCmd.PersistentFlags().StringP("aws-profile", "p", "", "AWS profile used by the aws backend and --aws-caller")
	rootCmd.PersistentFlags().Int("timeout", 0, "Timeout in seconds for each API request (default: 30)")
	rootCmd.PersistentFlags().String("log-level", "", "Diagnostic log level: debug, info, warn, error (default: warn)")

	// Flags do dashboard
	rootCmd.PersistentFlags().StringP("group", "g", "", "Group to show costs for")
	rootCmd.PersistentFlags().StringP("project", "P", "", "Project within the group (default: all projects)")
	rootCmd.PersistentFlags().StringP("duration", "D", "", "Period to show: P7D, P30D, P90D or P3M (default: P30D)")
	rootCmd.PersistentFlags().StringP("metric", "m", "", "Business metric to compare costs against")
	rootCmd.PersistentFlags().String("currency", "", "Currency for amounts, requires the cost-insights-currencies feature flag")
	rootCmd.PersistentFlags().StringP("user-id", "u", "", "User whose first group is used when --group is not set")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Render the cost insights dashboard (default command)",
		RunE:  app.runDashboard,
	}

	identityCmd := &cobra.Command{
		Use:   "identity",
		Short: "Look up the catalog user matching a set of annotations",
		Example: `  cost-insights identity -a github.com/user-login=jdoe
  cost-insights identity --aws-caller -p prod`,
		RunE: app.runIdentity,
	}
	identityCmd.Flags().StringArrayP("annotation", "a", nil, "Annotation constraint key=value (repeatable, all must match)")
	identityCmd.Flags().Bool("aws-caller", false, "Look up the user annotated with the ARN of the current AWS caller")

	browseCmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive terminal dashboard",
		RunE:  app.runBrowse,
	}

	rootCmd.AddCommand(dashboardCmd, identityCmd, browseCmd)

	app.rootCmd = rootCmd
	return app
}

// SetUseCaseFactory sets the factory used to build use cases.
func (app *CLIApp) SetUseCaseFactory(factory UseCaseFactory) {
	app.factory = factory
}

// SetBrowseFunc sets the interactive dashboard entry point.
func (app *CLIApp) SetBrowseFunc(browse BrowseFunc) {
	app.browse = browse
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(flags *pflag.FlagSet) (*types.CLIArgs, error) {
	args := &types.CLIArgs{}
	args.ConfigFile, _ = flags.GetString("config-file")
	args.Backend, _ = flags.GetString("backend")
	args.CostInsightsURL, _ = flags.GetString("cost-insights-url")
	args.CatalogURL, _ = flags.GetString("catalog-url")
	args.CatalogToken, _ = flags.GetString("catalog-token")
	args.AWSProfile, _ = flags.GetString("aws-profile")
	args.TimeoutSeconds, _ = flags.GetInt("timeout")
	args.LogLevel, _ = flags.GetString("log-level")
	args.Group, _ = flags.GetString("group")
	args.Project, _ = flags.GetString("project")
	args.Duration, _ = flags.GetString("duration")
	args.Metric, _ = flags.GetString("metric")
	args.Currency, _ = flags.GetString("currency")
	args.UserID, _ = flags.GetString("user-id")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.Dir, _ = flags.GetString("dir")

	if flags.Lookup("annotation") != nil {
		args.Annotations, _ = flags.GetStringArray("annotation")
		args.AWSCaller, _ = flags.GetBool("aws-caller")
	}

	return args, nil
}

// mergeConfig preenche, a partir do arquivo de configuração, os argumentos
// que não foram passados na linha de comando.
func mergeConfig(flags *pflag.FlagSet, args *types.CLIArgs, cfg *types.Config) {
	str := func(flag string, target *string, value string) {
		if !flags.Changed(flag) && value != "" {
			*target = value
		}
	}

	str("backend", &args.Backend, cfg.Backend)
	str("cost-insights-url", &args.CostInsightsURL, cfg.CostInsightsURL)
	str("catalog-url", &args.CatalogURL, cfg.CatalogURL)
	str("catalog-token", &args.CatalogToken, cfg.CatalogToken)
	str("aws-profile", &args.AWSProfile, cfg.AWSProfile)
	str("log-level", &args.LogLevel, cfg.Log.Level)
	str("group", &args.Group, cfg.Group)
	str("project", &args.Project, cfg.Project)
	str("duration", &args.Duration, cfg.Duration)
	str("metric", &args.Metric, cfg.Metric)
	str("currency", &args.Currency, cfg.Currency)
	str("user-id", &args.UserID, cfg.UserID)
	str("report-name", &args.ReportName, cfg.ReportName)
	str("dir", &args.Dir, cfg.Dir)

	if !flags.Changed("report-type") && len(cfg.ReportType) > 0 {
		args.ReportType = cfg.ReportType
	}
	if !flags.Changed("timeout") && cfg.TimeoutSeconds > 0 {
		args.TimeoutSeconds = cfg.TimeoutSeconds
	}

	// O config resolvido passa a refletir os valores efetivos
	cfg.Backend = args.Backend
	cfg.CostInsightsURL = args.CostInsightsURL
	cfg.CatalogURL = args.CatalogURL
	cfg.CatalogToken = args.CatalogToken
	cfg.AWSProfile = args.AWSProfile
	cfg.TimeoutSeconds = args.TimeoutSeconds
	cfg.Log.Level = args.LogLevel
}

// resolve carrega a configuração, mescla com as flags e inicializa o logger.
func (app *CLIApp) resolve(cmd *cobra.Command) (*types.CLIArgs, *types.Config, error) {
	args, err := parseArgs(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	configFile := args.ConfigFile
	if configFile == "" && app.configRepo != nil {
		configFile = app.configRepo.FindConfigFile()
	}

	cfg := &types.Config{}
	if configFile != "" {
		loaded, err := app.configRepo.LoadConfigFile(configFile)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	} else {
		cfg.Defaults()
	}

	mergeConfig(cmd.Flags(), args, cfg)

	if args.Dir != "" {
		absDir, err := filepath.Abs(args.Dir)
		if err != nil {
			return nil, nil, err
		}
		args.Dir = absDir
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, nil, err
		}
		args.Dir = cwd
	}

	if err := logging.Initialize(cfg.Log); err != nil {
		return nil, nil, fmt.Errorf("error initializing logger: %w", err)
	}

	return args, cfg, nil
}

// runDashboard é o ponto de entrada principal para o comando dashboard.
func (app *CLIApp) runDashboard(cmd *cobra.Command, _ []string) error {
	displayWelcomeBanner(app.version)
	if app.checkVersion != nil {
		app.checkVersion(app.version)
	}

	args, cfg, err := app.resolve(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	dashboard, err := app.factory.Dashboard(cfg)
	if err != nil {
		return err
	}

	return dashboard.RunDashboard(cmd.Context(), args)
}

func (app *CLIApp) runIdentity(cmd *cobra.Command, _ []string) error {
	args, cfg, err := app.resolve(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	identity, err := app.factory.Identity(cfg)
	if err != nil {
		return err
	}

	_, err = identity.RunIdentityLookup(cmd.Context(), args)
	return err
}

func (app *CLIApp) runBrowse(cmd *cobra.Command, _ []string) error {
	if app.browse == nil {
		return fmt.Errorf("interactive dashboard is not available")
	}

	args, cfg, err := app.resolve(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	dashboard, err := app.factory.Dashboard(cfg)
	if err != nil {
		return err
	}

	return app.browse(cmd.Context(), dashboard, args)
}

// checkLatestVersion avisa quando há uma versão mais nova publicada.
func checkLatestVersion(current string) {
	latest, newer, err := version.LatestVersion(context.Background(), &http.Client{Timeout: 3 * time.Second}, current)
	if err != nil || !newer {
		return
	}
	pterm.Warning.Printfln("A new version of Cost Insights Dashboard is available: %s", latest)
	pterm.Info.Println("Please update using: go install github.com/diillson/cost-insights-dashboard-go/cmd/cost-insights@latest")
}
