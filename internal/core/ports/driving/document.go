package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// CompanyService manages companies.
type CompanyService interface {
	// List returns all companies and refreshes the cached list.
	List(ctx context.Context) ([]domain.Company, error)

	// Create creates a company. The trimmed name must be non-empty and not
	// already present in the cached list.
	Create(ctx context.Context, name string) (*domain.Company, error)

	// Delete removes a company and forgets its cached documents.
	Delete(ctx context.Context, id string) error
}

// DocumentService manages documents within companies.
type DocumentService interface {
	// List returns the documents of a company and caches them.
	List(ctx context.Context, companyID string) ([]domain.Document, error)

	// Cached returns the last fetched documents of a company without a call.
	Cached(companyID string) ([]domain.Document, bool)

	// Upload inspects a local PDF or TIFF file and uploads it.
	Upload(ctx context.Context, companyID, path string) (*domain.Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, documentID string) error

	// Forget drops the cached documents of a company.
	Forget(companyID string)
}
