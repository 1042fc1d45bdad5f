package backend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend error (status %d): %s %s", e.Status, e.Method, e.Path)
	}
	return fmt.Sprintf("backend error (status %d): %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// Unwrap maps the status code onto a domain sentinel.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.ErrBackendUnavailable
	default:
		return nil
	}
}

// isServerFault reports whether err should count against the breaker.
// Client errors are the caller's fault and leave the breaker closed.
func isServerFault(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Status >= http.StatusInternalServerError
}
