// Package backend provides the HTTP adapter for the contract review backend.
//
// Every call goes through a client-side rate limiter and a circuit breaker.
// Non-2xx answers become *APIError values that wrap the matching domain
// sentinel, so callers can use errors.Is(err, domain.ErrNotFound) and
// similar checks without knowing HTTP status codes.
package backend
