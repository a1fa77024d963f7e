package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	Backend         string
	CostInsightsURL string
	CatalogURL      string
	CatalogToken    string
	AWSProfile      string
	Group           string
	Project         string
	Duration        string
	Metric          string
	Currency        string
	UserID          string
	ReportName      string
	ReportType      []string
	Dir             string
	TimeoutSeconds  int
	LogLevel        string

	// Identity lookup
	Annotations []string
	AWSCaller   bool
}
