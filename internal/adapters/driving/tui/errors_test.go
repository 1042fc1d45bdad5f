package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingCompanyService,
		ErrMissingDocumentService,
		ErrMissingCriteriaService,
		ErrMissingReviewSession,
		ErrMissingSettingsService,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrors_Messages(t *testing.T) {
	assert.Contains(t, ErrMissingCompanyService.Error(), "company service")
	assert.Contains(t, ErrMissingDocumentService.Error(), "document service")
	assert.Contains(t, ErrMissingCriteriaService.Error(), "criteria service")
	assert.Contains(t, ErrMissingReviewSession.Error(), "review session")
	assert.Contains(t, ErrMissingSettingsService.Error(), "settings service")
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
