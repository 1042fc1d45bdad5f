package driven

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// CompanyBackend manages companies on the review backend.
type CompanyBackend interface {
	// ListCompanies returns every company.
	ListCompanies(ctx context.Context) ([]domain.Company, error)

	// CreateCompany creates a company with the given name.
	CreateCompany(ctx context.Context, name string) (*domain.Company, error)

	// DeleteCompany removes a company. The backend cascades to its documents.
	DeleteCompany(ctx context.Context, id string) error
}

// DocumentBackend manages documents and their chunks.
type DocumentBackend interface {
	// ListDocuments returns the documents of a company.
	ListDocuments(ctx context.Context, companyID string) ([]domain.Document, error)

	// UploadDocument sends a file as a multipart upload.
	UploadDocument(ctx context.Context, companyID string, upload domain.Upload) (*domain.Document, error)

	// DeleteDocument removes a document by ID.
	DeleteDocument(ctx context.Context, id string) error

	// ListChunks returns the chunks of a document in backend order.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// UpdateChunkHeader persists the header of a single chunk.
	UpdateChunkHeader(ctx context.Context, chunkID, header string) error
}

// CriteriaBackend manages criteria groups and clauses.
type CriteriaBackend interface {
	// ListCriteriaGroups returns groups without clauses.
	ListCriteriaGroups(ctx context.Context) ([]domain.CriteriaGroup, error)

	// ListCriteriaGroupsWithClauses returns groups with their clauses embedded.
	ListCriteriaGroupsWithClauses(ctx context.Context) ([]domain.CriteriaGroup, error)

	// CreateCriteriaGroup creates an empty group.
	CreateCriteriaGroup(ctx context.Context, name string) (*domain.CriteriaGroup, error)

	// DeleteCriteriaGroup removes a group.
	DeleteCriteriaGroup(ctx context.Context, id string) error

	// ListClauses returns every clause.
	ListClauses(ctx context.Context) ([]domain.Clause, error)

	// CreateClause creates a clause inside a group.
	CreateClause(ctx context.Context, groupID, name, description string) (*domain.Clause, error)

	// AttachClause adds an existing clause to a group.
	AttachClause(ctx context.Context, groupID, clauseID string) error

	// DetachClause removes a clause from one group only.
	DetachClause(ctx context.Context, groupID, clauseID string) error

	// UpdateClause changes a clause's name and description.
	UpdateClause(ctx context.Context, id, name, description string) error

	// DeleteClause removes a clause everywhere.
	DeleteClause(ctx context.Context, id string) error

	// GenerateDescription asks the backend to write a description for a clause name.
	GenerateDescription(ctx context.Context, name string) (string, error)
}

// ReviewBackend runs clause reviews.
type ReviewBackend interface {
	// Review submits documents for review against a criteria group.
	Review(ctx context.Context, endpoint domain.ReviewEndpoint, groupID string, documentIDs []string) (domain.ReviewResult, error)
}

// ChatBackend answers questions about a set of documents.
type ChatBackend interface {
	// Chat sends a query scoped to the given documents and returns the reply.
	Chat(ctx context.Context, query string, documentIDs []string) (string, error)
}

// Backend is the full review backend surface.
type Backend interface {
	CompanyBackend
	DocumentBackend
	CriteriaBackend
	ReviewBackend
	ChatBackend
}
