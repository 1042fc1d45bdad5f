// Package tui provides an interactive terminal user interface for reviewdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Company manages companies.
	Company driving.CompanyService

	// Document lists, uploads and deletes documents of a company.
	Document driving.DocumentService

	// Criteria manages criteria groups and clauses.
	Criteria driving.CriteriaService

	// Review composes and submits review drafts.
	Review driving.ReviewSession

	// Settings manages application settings.
	Settings driving.SettingsService

	// Chat answers questions about selected documents. Optional.
	Chat driving.ChatSession

	// Chunks edits chunk headers. Optional.
	Chunks driving.ChunkEditor

	// History keeps saved review results. Optional.
	History driving.HistoryService

	// ExportDir is where saved reviews are exported. Empty means the
	// working directory.
	ExportDir string
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	company driving.CompanyService,
	document driving.DocumentService,
	criteria driving.CriteriaService,
	review driving.ReviewSession,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Company:  company,
		Document: document,
		Criteria: criteria,
		Review:   review,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Company == nil {
		return ErrMissingCompanyService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Criteria == nil {
		return ErrMissingCriteriaService
	}
	if p.Review == nil {
		return ErrMissingReviewSession
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
