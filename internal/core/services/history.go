package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService manages saved review results.
type HistoryService struct {
	store    driven.HistoryStore
	exporter driven.ResultExporter
}

// NewHistoryService creates a new history service.
// exporter may be nil, in which case Export is unavailable.
func NewHistoryService(store driven.HistoryStore, exporter driven.ResultExporter) *HistoryService {
	return &HistoryService{
		store:    store,
		exporter: exporter,
	}
}

// Record saves a review outcome. A missing ID is generated.
func (s *HistoryService) Record(ctx context.Context, record *domain.ReviewRecord) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.store.SaveRecord(ctx, record); err != nil {
		return fmt.Errorf("save review record: %w", err)
	}
	logger.Debug("Saved review %s (%d clauses)", record.ID, len(record.Result))
	return nil
}

// List returns saved reviews newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.ReviewRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListRecords(ctx)
}

// Get returns one saved review.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.ReviewRecord, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetRecord(ctx, id)
}

// Delete removes a saved review.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	return s.store.DeleteRecord(ctx, id)
}

// Export writes a saved review to an .xlsx file.
func (s *HistoryService) Export(ctx context.Context, id, path string) error {
	if s.store == nil || s.exporter == nil {
		return domain.ErrNotImplemented
	}
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return fmt.Errorf("export path must end in .xlsx: %w", domain.ErrInvalidInput)
	}
	record, err := s.store.GetRecord(ctx, id)
	if err != nil {
		return err
	}
	if err := s.exporter.Export(record, path); err != nil {
		return fmt.Errorf("export review: %w", err)
	}
	return nil
}
