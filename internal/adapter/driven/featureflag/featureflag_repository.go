package featureflag

import (
	"os"
	"strings"

	"github.com/diillson/cost-insights-dashboard-go/internal/domain/repository"
)

// EnvVar lists extra active flags, comma-separated.
const EnvVar = "COST_INSIGHTS_FEATURE_FLAGS"

// FeatureFlagRepositoryImpl implementa o FeatureFlagRepository a partir da
// configuração e da variável de ambiente.
type FeatureFlagRepositoryImpl struct {
	active map[string]bool
}

// NewFeatureFlagRepository cria o repositório com as flags configuradas
// mais as listadas em COST_INSIGHTS_FEATURE_FLAGS.
func NewFeatureFlagRepository(configured []string) repository.FeatureFlagRepository {
	active := make(map[string]bool)
	for _, flag := range configured {
		addFlag(active, flag)
	}
	for _, flag := range strings.Split(os.Getenv(EnvVar), ",") {
		addFlag(active, flag)
	}
	return &FeatureFlagRepositoryImpl{active: active}
}

func addFlag(active map[string]bool, flag string) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag != "" {
		active[flag] = true
	}
}

// IsActive reports whether the flag is enabled. Names are case-insensitive.
func (r *FeatureFlagRepositoryImpl) IsActive(flag string) bool {
	return r.active[strings.ToLower(strings.TrimSpace(flag))]
}
