package domain

import "time"

const unknownDescription = "Unknown"

// ReviewEndpoint selects which backend review route a submission uses.
type ReviewEndpoint string

// Available review endpoints.
const (
	// ReviewEndpointArray posts to /reviews/review1, which answers with an
	// array of JSON-encoded clause results.
	ReviewEndpointArray ReviewEndpoint = "review1"

	// ReviewEndpointObject posts to /reviews/review, which answers with a
	// structured object.
	ReviewEndpointObject ReviewEndpoint = "review"
)

// AllReviewEndpoints returns the selectable endpoints, default first.
func AllReviewEndpoints() []ReviewEndpoint {
	return []ReviewEndpoint{ReviewEndpointArray, ReviewEndpointObject}
}

// IsValid returns true if the endpoint is recognised.
func (e ReviewEndpoint) IsValid() bool {
	switch e {
	case ReviewEndpointArray, ReviewEndpointObject:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (e ReviewEndpoint) String() string {
	return string(e)
}

// Description returns a human-readable description of the endpoint.
func (e ReviewEndpoint) Description() string {
	switch e {
	case ReviewEndpointArray:
		return "review1 (array of encoded clause results)"
	case ReviewEndpointObject:
		return "review (structured object)"
	default:
		return unknownDescription
	}
}

// Configuration defaults.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 120
	DefaultRateLimit      = 10
)

// BackendSettings configures how the backend is reached.
type BackendSettings struct {
	// BaseURL is the backend root, without a trailing slash.
	BaseURL string `label:"backend.base_url" validate:"required,url"`

	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `label:"backend.timeout" validate:"gte=1,lte=3600"`

	// Token is an optional bearer token. Empty means no Authorization header.
	Token string

	// RateLimit is the maximum requests per second. 0 disables throttling.
	RateLimit int `label:"backend.rate_limit" validate:"gte=0"`
}

// Timeout returns TimeoutSeconds as a duration.
func (b BackendSettings) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// ReviewSettings configures review submission.
type ReviewSettings struct {
	Endpoint ReviewEndpoint
}

// OnboardingSettings configures the chunk header editor.
type OnboardingSettings struct {
	// Autosave persists unsaved header edits when navigating between chunks.
	// When false, navigation is refused while edits are pending.
	Autosave bool
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Backend    BackendSettings
	Review     ReviewSettings
	Onboarding OnboardingSettings
}

// DefaultAppSettings returns settings with default values.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
			RateLimit:      DefaultRateLimit,
		},
		Review: ReviewSettings{
			Endpoint: ReviewEndpointArray,
		},
		Onboarding: OnboardingSettings{
			Autosave: true,
		},
	}
}
