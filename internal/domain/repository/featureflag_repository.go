package repository

// FeatureFlagRepository reports whether a feature flag is enabled.
type FeatureFlagRepository interface {
	IsActive(flag string) bool
}
