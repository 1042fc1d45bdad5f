// Package mcp provides an MCP (Model Context Protocol) server adapter for reviewdesk.
// It lets AI assistants list companies, documents and criteria, run clause
// reviews and chat with documents on the review backend.
package mcp

import "errors"

var (
	// ErrMissingCompanyService is returned when the company service is not provided.
	ErrMissingCompanyService = errors.New("mcp: company service is required")

	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrToolUnavailable is returned by tools whose backing service is not wired.
	ErrToolUnavailable = errors.New("mcp: tool unavailable")
)
