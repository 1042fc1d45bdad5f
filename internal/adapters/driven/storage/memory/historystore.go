package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	records map[string]domain.ReviewRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{records: make(map[string]domain.ReviewRecord)}
}

// SaveRecord stores or replaces a record.
func (s *HistoryStore) SaveRecord(_ context.Context, record *domain.ReviewRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}

// GetRecord retrieves a record by ID.
func (s *HistoryStore) GetRecord(_ context.Context, id string) (*domain.ReviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// ListRecords returns records newest first.
func (s *HistoryStore) ListRecords(_ context.Context) ([]domain.ReviewRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ReviewRecord, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec)
	}
	slices.SortFunc(result, func(a, b domain.ReviewRecord) int {
		return b.ReviewedAt.Compare(a.ReviewedAt)
	})
	return result, nil
}

// DeleteRecord removes a record.
func (s *HistoryStore) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}
