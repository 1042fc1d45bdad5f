package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

// mockCompanyService is a mock implementation of driving.CompanyService.
type mockCompanyService struct {
	companies []domain.Company
	err       error
}

func (m *mockCompanyService) List(_ context.Context) ([]domain.Company, error) {
	return m.companies, m.err
}

func (m *mockCompanyService) Create(_ context.Context, _ string) (*domain.Company, error) {
	return nil, m.err
}

func (m *mockCompanyService) Delete(_ context.Context, _ string) error {
	return m.err
}

// fixture is a server over real services backed by the in-memory backend.
type fixture struct {
	server  *Server
	backend *memory.Backend
	company domain.Company
	group   domain.CriteriaGroup
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	backend := memory.NewBackend()
	company, err := backend.CreateCompany(ctx, "Acme")
	require.NoError(t, err)
	backend.AddDocument(domain.Document{ID: "doc-1", CompanyID: company.ID, Name: "msa.pdf", DocType: "MSA"},
		domain.Chunk{ID: "c1", Content: "Payment is due within 30 days.", Header: "Terms"},
	)
	backend.AddDocument(domain.Document{ID: "doc-2", CompanyID: company.ID, Name: "po.pdf"})
	group, err := backend.CreateCriteriaGroup(ctx, "Supply")
	require.NoError(t, err)
	_, err = backend.CreateClause(ctx, group.ID, "Payment", "When money changes hands")
	require.NoError(t, err)

	settings := services.NewSettingsService(memory.NewConfigStore())
	documents := services.NewDocumentService(backend, upload.NewInspector(0))
	history := services.NewHistoryService(memory.NewHistoryStore(), nil)

	server, err := NewServer(&Ports{
		Company:  services.NewCompanyService(backend, documents),
		Document: documents,
		Criteria: services.NewCriteriaService(backend),
		Review:   services.NewReviewSession(backend, history, settings),
		Chat:     services.NewChatSession(backend),
	})
	require.NoError(t, err)

	return &fixture{server: server, backend: backend, company: *company, group: *group}
}
