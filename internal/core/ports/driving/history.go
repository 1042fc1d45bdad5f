package driving

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// HistoryService manages saved review results.
type HistoryService interface {
	// Record saves the outcome of a submitted draft.
	Record(ctx context.Context, record *domain.ReviewRecord) error

	// List returns saved reviews newest first.
	List(ctx context.Context) ([]domain.ReviewRecord, error)

	// Get returns one saved review.
	Get(ctx context.Context, id string) (*domain.ReviewRecord, error)

	// Delete removes a saved review.
	Delete(ctx context.Context, id string) error

	// Export writes a saved review to a spreadsheet at path.
	Export(ctx context.Context, id, path string) error
}
