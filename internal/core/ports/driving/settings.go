package driving

import "github.com/custodia-labs/askdocs-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Set updates a single dotted key (e.g. "llm.model") and persists it.
	Set(key string, value any) error

	// Validate checks the current settings for inconsistent values.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns where settings are persisted.
	ConfigPath() string
}
