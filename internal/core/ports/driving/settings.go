package driving

import "github.com/custodia-labs/reviewdesk/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// SetBaseURL updates the backend root URL.
	SetBaseURL(baseURL string) error

	// SetToken updates the bearer token. Empty removes it.
	SetToken(token string) error

	// SetReviewEndpoint selects the review route.
	SetReviewEndpoint(endpoint domain.ReviewEndpoint) error

	// SetAutosave toggles chunk header autosave on navigation.
	SetAutosave(enabled bool) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns the backing file path.
	ConfigPath() string
}
