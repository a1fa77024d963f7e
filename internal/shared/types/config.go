package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Backend         string `json:"backend" yaml:"backend" toml:"backend"`
	CostInsightsURL string `json:"cost_insights_url" yaml:"cost_insights_url" toml:"cost_insights_url"`
	CatalogURL      string `json:"catalog_url" yaml:"catalog_url" toml:"catalog_url"`
	CatalogToken    string `json:"catalog_token" yaml:"catalog_token" toml:"catalog_token"`
	AWSProfile      string `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
	GroupTagKey     string `json:"group_tag_key" yaml:"group_tag_key" toml:"group_tag_key"`
	ProjectTagKey   string `json:"project_tag_key" yaml:"project_tag_key" toml:"project_tag_key"`

	Group    string `json:"group" yaml:"group" toml:"group"`
	Project  string `json:"project" yaml:"project" toml:"project"`
	Duration string `json:"duration" yaml:"duration" toml:"duration"`
	Metric   string `json:"metric" yaml:"metric" toml:"metric"`
	UserID   string `json:"user_id" yaml:"user_id" toml:"user_id"`

	Metrics      []MetricConfig `json:"metrics" yaml:"metrics" toml:"metrics"`
	FeatureFlags []string       `json:"feature_flags" yaml:"feature_flags" toml:"feature_flags"`
	Currency     string         `json:"currency" yaml:"currency" toml:"currency"`
	EngineerCost float64        `json:"engineer_cost" yaml:"engineer_cost" toml:"engineer_cost"`

	ReportName     string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType     []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir            string   `json:"dir" yaml:"dir" toml:"dir"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`

	Log LogConfig `json:"log" yaml:"log" toml:"log"`
}

// MetricConfig declares a business metric offered in the metric selector.
type MetricConfig struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Name    string `json:"name" yaml:"name" toml:"name"`
	Default bool   `json:"default" yaml:"default" toml:"default"`
}

// LogConfig controla o logger estruturado.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"`
	Output string `json:"output" yaml:"output" toml:"output"`
}

// DefaultEngineerCost is the annual cost of one engineer used by the
// engineers currency when no value is configured.
const DefaultEngineerCost = 200000.0

// Defaults fills unset fields with the built-in defaults.
func (c *Config) Defaults() {
	if c.Backend == "" {
		c.Backend = "http"
	}
	if c.GroupTagKey == "" {
		c.GroupTagKey = "team"
	}
	if c.ProjectTagKey == "" {
		c.ProjectTagKey = "project"
	}
	if c.Duration == "" {
		c.Duration = "P30D"
	}
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.EngineerCost == 0 {
		c.EngineerCost = DefaultEngineerCost
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
}
