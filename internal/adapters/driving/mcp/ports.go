package mcp

import (
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Company lists companies.
	Company driving.CompanyService

	// Document lists documents within companies.
	Document driving.DocumentService

	// Criteria exposes criteria groups and clauses.
	Criteria driving.CriteriaService

	// Review submits review drafts.
	Review driving.ReviewSession

	// Chat answers questions about documents.
	Chat driving.ChatSession
}

// Validate ensures all required ports are set.
// Criteria, Review and Chat are optional; their tools report ErrToolUnavailable.
func (p *Ports) Validate() error {
	if p.Company == nil {
		return ErrMissingCompanyService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
