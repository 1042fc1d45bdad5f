package driven

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// HistoryStore persists review records locally.
// Backed by SQLite.
type HistoryStore interface {
	// SaveRecord stores or replaces a record.
	SaveRecord(ctx context.Context, record *domain.ReviewRecord) error

	// GetRecord retrieves a record by ID. Returns domain.ErrNotFound if absent.
	GetRecord(ctx context.Context, id string) (*domain.ReviewRecord, error)

	// ListRecords returns records newest first.
	ListRecords(ctx context.Context) ([]domain.ReviewRecord, error)

	// DeleteRecord removes a record. Returns domain.ErrNotFound if absent.
	DeleteRecord(ctx context.Context, id string) error
}

// ResultExporter writes a review record to a file.
type ResultExporter interface {
	// Export writes the record to path.
	Export(record *domain.ReviewRecord, path string) error
}
