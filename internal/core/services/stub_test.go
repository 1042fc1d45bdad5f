package services

import (
	"context"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// stubBackend wraps the in-memory backend and lets tests replace single calls.
type stubBackend struct {
	*memory.Backend

	listCompaniesFn     func(ctx context.Context) ([]domain.Company, error)
	listDocumentsFn     func(ctx context.Context, companyID string) ([]domain.Document, error)
	updateChunkHeaderFn func(ctx context.Context, chunkID, header string) error
	listClausesFn       func(ctx context.Context) ([]domain.Clause, error)
	reviewFn            func(ctx context.Context, endpoint domain.ReviewEndpoint, groupID string, ids []string) (domain.ReviewResult, error)
	chatFn              func(ctx context.Context, query string, ids []string) (string, error)
}

func newStubBackend() *stubBackend {
	return &stubBackend{Backend: memory.NewBackend()}
}

func (b *stubBackend) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	if b.listCompaniesFn != nil {
		return b.listCompaniesFn(ctx)
	}
	return b.Backend.ListCompanies(ctx)
}

func (b *stubBackend) ListDocuments(ctx context.Context, companyID string) ([]domain.Document, error) {
	if b.listDocumentsFn != nil {
		return b.listDocumentsFn(ctx, companyID)
	}
	return b.Backend.ListDocuments(ctx, companyID)
}

func (b *stubBackend) UpdateChunkHeader(ctx context.Context, chunkID, header string) error {
	if b.updateChunkHeaderFn != nil {
		return b.updateChunkHeaderFn(ctx, chunkID, header)
	}
	return b.Backend.UpdateChunkHeader(ctx, chunkID, header)
}

func (b *stubBackend) ListClauses(ctx context.Context) ([]domain.Clause, error) {
	if b.listClausesFn != nil {
		return b.listClausesFn(ctx)
	}
	return b.Backend.ListClauses(ctx)
}

func (b *stubBackend) Review(ctx context.Context, endpoint domain.ReviewEndpoint, groupID string, ids []string) (domain.ReviewResult, error) {
	if b.reviewFn != nil {
		return b.reviewFn(ctx, endpoint, groupID, ids)
	}
	return b.Backend.Review(ctx, endpoint, groupID, ids)
}

func (b *stubBackend) Chat(ctx context.Context, query string, ids []string) (string, error) {
	if b.chatFn != nil {
		return b.chatFn(ctx, query, ids)
	}
	return b.Backend.Chat(ctx, query, ids)
}

// stubInspector returns a fixed upload or error.
type stubInspector struct {
	upload *domain.Upload
	err    error
	paths  []string
}

func (s *stubInspector) Inspect(path string) (*domain.Upload, error) {
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	u := *s.upload
	return &u, nil
}

// stubExporter records exported records.
type stubExporter struct {
	exported []string
	err      error
}

func (s *stubExporter) Export(record *domain.ReviewRecord, path string) error {
	if s.err != nil {
		return s.err
	}
	s.exported = append(s.exported, record.ID+"@"+path)
	return nil
}
