package services

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseURL        = "backend.base_url"
	keyTimeout        = "backend.timeout"
	keyToken          = "backend.token"
	keyRateLimit      = "backend.rate_limit"
	keyReviewEndpoint = "review.endpoint"
	keyAutosave       = "onboarding.autosave"
)

// EnvBaseURL overrides backend.base_url when set.
const EnvBaseURL = "REVIEWDESK_BASE_URL"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore

	mu        sync.Mutex
	listeners []func(domain.AppSettings)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	if s.configStore == nil {
		return &defaults, nil
	}

	settings := &domain.AppSettings{
		Backend: domain.BackendSettings{
			BaseURL:        strings.TrimRight(s.getString(keyBaseURL, defaults.Backend.BaseURL), "/"),
			TimeoutSeconds: s.getInt(keyTimeout, defaults.Backend.TimeoutSeconds),
			Token:          s.configStore.GetString(keyToken),
			RateLimit:      s.getInt(keyRateLimit, defaults.Backend.RateLimit),
		},
		Review: domain.ReviewSettings{
			Endpoint: s.getReviewEndpoint(defaults.Review.Endpoint),
		},
		Onboarding: domain.OnboardingSettings{
			Autosave: s.getBool(keyAutosave, defaults.Onboarding.Autosave),
		},
	}

	if env := os.Getenv(EnvBaseURL); env != "" {
		settings.Backend.BaseURL = strings.TrimRight(env, "/")
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := validateSettings(settings); err != nil {
		return err
	}

	if err := s.configStore.Set(keyBaseURL, settings.Backend.BaseURL); err != nil {
		return fmt.Errorf("save base_url: %w", err)
	}
	if err := s.configStore.Set(keyTimeout, settings.Backend.TimeoutSeconds); err != nil {
		return fmt.Errorf("save timeout: %w", err)
	}
	if err := s.configStore.Set(keyToken, settings.Backend.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.configStore.Set(keyRateLimit, settings.Backend.RateLimit); err != nil {
		return fmt.Errorf("save rate_limit: %w", err)
	}
	if err := s.configStore.Set(keyReviewEndpoint, settings.Review.Endpoint.String()); err != nil {
		return fmt.Errorf("save review endpoint: %w", err)
	}
	if err := s.configStore.Set(keyAutosave, settings.Onboarding.Autosave); err != nil {
		return fmt.Errorf("save autosave: %w", err)
	}
	s.Reloaded()
	return nil
}

// OnChange registers fn to receive the effective settings after every save
// and every Reloaded call.
func (s *SettingsService) OnChange(fn func(domain.AppSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reloaded notifies listeners that the backing store changed underneath.
func (s *SettingsService) Reloaded() {
	settings, err := s.Get()
	if err != nil {
		return
	}
	s.mu.Lock()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(*settings)
	}
}

// SetBaseURL updates the backend root URL.
func (s *SettingsService) SetBaseURL(baseURL string) error {
	settings, err := s.stored()
	if err != nil {
		return err
	}
	settings.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return s.Save(settings)
}

// SetToken updates the bearer token.
func (s *SettingsService) SetToken(token string) error {
	settings, err := s.stored()
	if err != nil {
		return err
	}
	settings.Backend.Token = strings.TrimSpace(token)
	return s.Save(settings)
}

// SetReviewEndpoint selects the review route.
func (s *SettingsService) SetReviewEndpoint(endpoint domain.ReviewEndpoint) error {
	if !endpoint.IsValid() {
		return fmt.Errorf("invalid review endpoint %q: %w", endpoint, domain.ErrInvalidInput)
	}
	settings, err := s.stored()
	if err != nil {
		return err
	}
	settings.Review.Endpoint = endpoint
	return s.Save(settings)
}

// SetAutosave toggles chunk header autosave.
func (s *SettingsService) SetAutosave(enabled bool) error {
	settings, err := s.stored()
	if err != nil {
		return err
	}
	settings.Onboarding.Autosave = enabled
	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns the backing file path.
func (s *SettingsService) ConfigPath() string {
	if s.configStore == nil {
		return ""
	}
	return s.configStore.Path()
}

// stored is Get without the environment override, so a Set never
// persists a value that only came from the environment.
func (s *SettingsService) stored() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	if os.Getenv(EnvBaseURL) != "" {
		settings.Backend.BaseURL = strings.TrimRight(s.getString(keyBaseURL, domain.DefaultBaseURL), "/")
	}
	return settings, nil
}

func validateSettings(settings *domain.AppSettings) error {
	if err := validateStruct(settings.Backend); err != nil {
		return err
	}
	if !settings.Review.Endpoint.IsValid() {
		return fmt.Errorf("invalid review endpoint %q: %w", settings.Review.Endpoint, domain.ErrInvalidInput)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getReviewEndpoint(defaultVal domain.ReviewEndpoint) domain.ReviewEndpoint {
	endpoint := domain.ReviewEndpoint(s.configStore.GetString(keyReviewEndpoint))
	if !endpoint.IsValid() {
		return defaultVal
	}
	return endpoint
}
