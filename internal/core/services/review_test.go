package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

func TestNewReviewSession_HasOneDraft(t *testing.T) {
	s := NewReviewSession(newStubBackend(), nil, nil)

	assert.Len(t, s.Drafts(), 1)
	assert.Equal(t, 0, s.CurrentIndex())
	assert.NotEmpty(t, s.Current().ID)
	assert.Nil(t, s.LastResult())
}

func TestReviewSession_AddAndRemoveDrafts(t *testing.T) {
	s := NewReviewSession(newStubBackend(), nil, nil)

	assert.ErrorIs(t, s.RemoveCurrent(), domain.ErrLastDraft)

	s.AddDraft()
	s.AddDraft()
	assert.Len(t, s.Drafts(), 3)
	assert.Equal(t, 2, s.CurrentIndex())

	require.NoError(t, s.RemoveCurrent())
	assert.Equal(t, 1, s.CurrentIndex(), "index clamps to the new last draft")

	require.NoError(t, s.Select(0))
	require.NoError(t, s.RemoveCurrent())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Len(t, s.Drafts(), 1)

	assert.ErrorIs(t, s.Select(5), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Select(-1), domain.ErrInvalidInput)
}

func TestReviewSession_MutationsOnlyTouchCurrentDraft(t *testing.T) {
	s := NewReviewSession(newStubBackend(), nil, nil)

	s.SetCompany("c1")
	s.SetFiles([]string{"d1", "d2"})
	s.AddDraft()
	s.SetCompany("c2")
	s.ToggleFile("d3")

	drafts := s.Drafts()
	assert.Equal(t, "c1", drafts[0].CompanyID)
	assert.Equal(t, []string{"d1", "d2"}, drafts[0].Files)
	assert.Equal(t, "c2", drafts[1].CompanyID)
	assert.Equal(t, []string{"d3"}, drafts[1].Files)
}

func TestReviewSession_SetCompanyResetsFiles(t *testing.T) {
	s := NewReviewSession(newStubBackend(), nil, nil)

	s.SetCompany("c1")
	s.ToggleFile("d1")
	s.ToggleFile("d2")
	s.ToggleFile("d1")
	assert.Equal(t, []string{"d2"}, s.Current().Files)

	s.SetCompany("c2")
	assert.Empty(t, s.Current().Files)
}

func TestReviewSession_SetCriteriaGroupCopies(t *testing.T) {
	s := NewReviewSession(newStubBackend(), nil, nil)
	g := &domain.CriteriaGroup{ID: "g1", Clauses: []domain.Clause{{ID: "c1"}}}

	s.SetCriteriaGroup(g)
	g.Clauses[0].ID = "changed"
	assert.Equal(t, "c1", s.Current().CriteriaGroup.Clauses[0].ID)

	s.SetCriteriaGroup(nil)
	assert.Nil(t, s.Current().CriteriaGroup)

	s.SetPurchaseOrder("/tmp/po.pdf")
	assert.Equal(t, "/tmp/po.pdf", s.Current().PurchaseOrder)
}

func TestReviewSession_Submit_Incomplete(t *testing.T) {
	backend := newStubBackend()
	s := NewReviewSession(backend, nil, nil)

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrIncompleteDraft)
	assert.Contains(t, err.Error(), "company")

	s.SetCompany("c1")
	s.SetCriteriaGroup(&domain.CriteriaGroup{ID: "g1"})
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrIncompleteDraft)
	assert.Contains(t, err.Error(), "documents")

	assert.Zero(t, backend.Calls("Review"))
}

func reviewFixture(t *testing.T) (*stubBackend, domain.Company, *domain.CriteriaGroup) {
	t.Helper()
	ctx := context.Background()
	backend := newStubBackend()
	company, err := backend.Backend.CreateCompany(ctx, "Acme")
	require.NoError(t, err)
	group, err := backend.Backend.CreateCriteriaGroup(ctx, "Supply")
	require.NoError(t, err)
	_, err = backend.Backend.CreateClause(ctx, group.ID, "Termination", "")
	require.NoError(t, err)
	backend.AddDocument(domain.Document{ID: "d1", CompanyID: company.ID, DocType: "contract"},
		domain.Chunk{ID: "k1", Content: "Termination on 30 days notice"})
	return backend, *company, group
}

func TestReviewSession_Submit_Success(t *testing.T) {
	backend, company, group := reviewFixture(t)
	history := NewHistoryService(memory.NewHistoryStore(), nil)
	s := NewReviewSession(backend, history, nil)
	ctx := context.Background()

	_, err := s.LoadOptions(ctx)
	require.NoError(t, err)
	s.SetCompany(company.ID)
	s.SetFiles([]string{"d1"})
	s.SetCriteriaGroup(group)

	result, err := s.Submit(ctx)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Termination", result[0].ClauseName)
	assert.Equal(t, 1, result.QuoteCount())
	assert.Equal(t, result, s.LastResult())
	assert.Equal(t, []string{"d1"}, backend.LastReviewIDs())

	records, err := history.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].CompanyName)
	assert.Equal(t, "Supply", records[0].CriteriaName)
	assert.Equal(t, []string{"d1"}, records[0].DocumentIDs)
}

func TestReviewSession_Submit_FailureKeepsPreviousResult(t *testing.T) {
	backend, company, group := reviewFixture(t)
	s := NewReviewSession(backend, nil, nil)
	ctx := context.Background()

	s.SetCompany(company.ID)
	s.SetFiles([]string{"d1"})
	s.SetCriteriaGroup(group)
	first, err := s.Submit(ctx)
	require.NoError(t, err)

	backend.reviewFn = func(context.Context, domain.ReviewEndpoint, string, []string) (domain.ReviewResult, error) {
		return nil, errors.New("backend down")
	}
	_, err = s.Submit(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, first, s.LastResult())
}

func TestReviewSession_Submit_UsesConfiguredEndpoint(t *testing.T) {
	backend, company, group := reviewFixture(t)
	store := memory.NewConfigStore()
	_ = store.Set("review.endpoint", "review")
	s := NewReviewSession(backend, nil, NewSettingsService(store))

	var used domain.ReviewEndpoint
	backend.reviewFn = func(_ context.Context, ep domain.ReviewEndpoint, _ string, _ []string) (domain.ReviewResult, error) {
		used = ep
		return domain.ReviewResult{}, nil
	}
	s.SetCompany(company.ID)
	s.SetFiles([]string{"d1"})
	s.SetCriteriaGroup(group)

	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewEndpointObject, used)
}

func TestReviewSession_LoadOptionsAndDocuments(t *testing.T) {
	backend, company, _ := reviewFixture(t)
	s := NewReviewSession(backend, nil, nil)
	ctx := context.Background()

	opts, err := s.LoadOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts.Companies, 1)
	require.Len(t, opts.Groups, 1)
	assert.Len(t, opts.Groups[0].Clauses, 1)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	assert.Nil(t, docs, "no company selected")

	s.SetCompany(company.ID)
	docs, err = s.Documents(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestReviewSession_LoadOptions_Error(t *testing.T) {
	backend := newStubBackend()
	backend.listCompaniesFn = func(context.Context) ([]domain.Company, error) {
		return nil, domain.ErrBackendUnavailable
	}
	s := NewReviewSession(backend, nil, nil)

	_, err := s.LoadOptions(context.Background())
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}
