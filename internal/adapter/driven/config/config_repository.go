package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
	"github.com/diillson/cost-insights-dashboard-go/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// defaultConfigNames são procurados, nessa ordem, no diretório de configuração do usuário.
var defaultConfigNames = []string{"config.yaml", "config.yml", "config.toml", "config.json"}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	configDir string
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// Um configDir vazio usa $XDG_CONFIG_HOME/cost-insights (ou equivalente do SO).
func NewConfigRepository(configDir string) repository.ConfigRepository {
	if configDir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			configDir = filepath.Join(base, "cost-insights")
		}
	}
	return &ConfigRepositoryImpl{configDir: configDir}
}

// FindConfigFile returns the first default config file that exists, or "".
func (r *ConfigRepositoryImpl) FindConfigFile() string {
	if r.configDir == "" {
		return ""
	}
	for _, name := range defaultConfigNames {
		path := filepath.Join(r.configDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Variáveis de ambiente no formato ${VAR} são expandidas antes do parse.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(fileData)))

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(expanded, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(expanded, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	config.Defaults()
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}

	return &config, nil
}

func validate(config *types.Config) error {
	switch config.Backend {
	case "http", "aws":
	default:
		return fmt.Errorf("%w: %q", types.ErrUnsupportedBackend, config.Backend)
	}

	if _, err := entity.ParseDuration(config.Duration); err != nil {
		return err
	}

	if config.EngineerCost < 0 {
		return fmt.Errorf("engineer_cost must not be negative")
	}

	for _, reportType := range config.ReportType {
		switch reportType {
		case "csv", "json", "pdf":
		default:
			return fmt.Errorf("unsupported report type: %s", reportType)
		}
	}
	return nil
}
