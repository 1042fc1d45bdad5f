package tui

import "errors"

// ErrMissingCompanyService is returned when the company service is not provided.
var ErrMissingCompanyService = errors.New("tui: company service is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrMissingCriteriaService is returned when the criteria service is not provided.
var ErrMissingCriteriaService = errors.New("tui: criteria service is required")

// ErrMissingReviewSession is returned when the review session is not provided.
var ErrMissingReviewSession = errors.New("tui: review session is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
