package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driven"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages documents within companies.
// Fetched documents are cached per company.
type DocumentService struct {
	backend   driven.DocumentBackend
	inspector driven.UploadInspector

	mu      sync.RWMutex
	buckets map[string][]domain.Document
}

// NewDocumentService creates a new document service.
// inspector may be nil, in which case uploads are rejected.
func NewDocumentService(backend driven.DocumentBackend, inspector driven.UploadInspector) *DocumentService {
	return &DocumentService{
		backend:   backend,
		inspector: inspector,
		buckets:   make(map[string][]domain.Document),
	}
}

// List returns the documents of a company and caches them.
func (s *DocumentService) List(ctx context.Context, companyID string) ([]domain.Document, error) {
	if s.backend == nil {
		return nil, domain.ErrNotImplemented
	}
	if companyID == "" {
		return nil, fmt.Errorf("company is required: %w", domain.ErrInvalidInput)
	}
	docs, err := s.backend.ListDocuments(ctx, companyID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.buckets[companyID] = docs
	s.mu.Unlock()
	return docs, nil
}

// Cached returns the last fetched documents of a company.
func (s *DocumentService) Cached(companyID string) ([]domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs, ok := s.buckets[companyID]
	return docs, ok
}

// Upload inspects a local file and uploads it to the company.
func (s *DocumentService) Upload(ctx context.Context, companyID, path string) (*domain.Document, error) {
	if s.backend == nil || s.inspector == nil {
		return nil, domain.ErrNotImplemented
	}
	if companyID == "" {
		return nil, fmt.Errorf("company is required: %w", domain.ErrInvalidInput)
	}

	upload, err := s.inspector.Inspect(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Uploading %s (%s, %d bytes, %d pages)", upload.FileName, upload.ContentType, len(upload.Data), upload.Pages)

	doc, err := s.backend.UploadDocument(ctx, companyID, *upload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.buckets[companyID]; ok {
		s.buckets[companyID] = append(s.buckets[companyID], *doc)
	}
	s.mu.Unlock()
	return doc, nil
}

// Delete removes a document and drops it from every cached bucket.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if s.backend == nil {
		return domain.ErrNotImplemented
	}
	if err := s.backend.DeleteDocument(ctx, documentID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for companyID, docs := range s.buckets {
		kept := docs[:0:0]
		for _, d := range docs {
			if d.ID != documentID {
				kept = append(kept, d)
			}
		}
		s.buckets[companyID] = kept
	}
	return nil
}

// Forget drops the cached documents of a company.
func (s *DocumentService) Forget(companyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, companyID)
}
