package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// ChatRequest is a validated message ready to send.
type ChatRequest struct {
	Query       string
	DocumentIDs []string
}

// ChatSession is a document-scoped conversation.
type ChatSession interface {
	// Companies returns all companies.
	Companies(ctx context.Context) ([]domain.Company, error)

	// SelectCompany switches company, clears the document selection and
	// returns that company's documents, fetched fresh from the backend.
	SelectCompany(ctx context.Context, companyID string) ([]domain.Document, error)

	// CompanyID returns the selected company.
	CompanyID() string

	// ToggleDocument adds or removes a document from the selection.
	ToggleDocument(documentID string)

	// SelectedDocuments returns the selected document IDs in selection order.
	SelectedDocuments() []string

	// Messages returns the conversation so far.
	Messages() []domain.ChatMessage

	// Waiting reports whether a reply is outstanding.
	Waiting() bool

	// Begin validates text, records it as a user message and marks the
	// session as waiting. Returns ErrNoDocumentsSelected or ErrInvalidInput
	// without touching history when the message cannot be sent.
	Begin(text string) (*ChatRequest, error)

	// Complete performs the request and appends the reply, or the fallback
	// reply on failure.
	Complete(ctx context.Context, req *ChatRequest) domain.ChatMessage

	// Send is Begin followed by Complete.
	Send(ctx context.Context, text string) (domain.ChatMessage, error)
}
