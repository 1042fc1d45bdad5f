package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/backend/backendtest"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

func newTestClient(t *testing.T, opts ...backendtest.Option) (*Client, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(opts...)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second}), srv
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.conn.Load().client.Timeout)
}

func TestClient_Companies(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	created, err := c.CreateCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.NotEmpty(t, created.ID)

	companies, err := c.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, *created, companies[0])

	_, err = c.CreateCompany(ctx, "Acme")
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "/documents/company", apiErr.Path)

	require.NoError(t, c.DeleteCompany(ctx, created.ID))
	assert.ErrorIs(t, c.DeleteCompany(ctx, created.ID), domain.ErrNotFound)
}

func TestClient_Documents(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t)

	company, err := c.CreateCompany(ctx, "Acme")
	require.NoError(t, err)

	doc, err := c.UploadDocument(ctx, company.ID, domain.Upload{
		FileName:    "contract.pdf",
		ContentType: domain.MIMETypePDF,
		Data:        []byte("the termination clause"),
	})
	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", doc.Name)
	assert.Equal(t, company.ID, doc.CompanyID)
	assert.Equal(t, domain.MIMETypePDF, doc.DocType)

	docs, err := c.ListDocuments(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	chunks, err := c.ListChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "the termination clause", chunks[0].Content)
	assert.Equal(t, doc.ID, chunks[0].DocumentID)

	require.NoError(t, c.UpdateChunkHeader(ctx, chunks[0].ID, "Termination"))
	chunks, err = srv.Backend.ListChunks(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Termination", chunks[0].Header)

	require.NoError(t, c.DeleteDocument(ctx, doc.ID))
	_, err = c.ListChunks(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Criteria(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	group, err := c.CreateCriteriaGroup(ctx, "Supply")
	require.NoError(t, err)
	assert.Equal(t, "Supply", group.Name)

	clause, err := c.CreateClause(ctx, group.ID, "Termination", "Ends the agreement")
	require.NoError(t, err)
	assert.Equal(t, "Termination", clause.Name)

	other, err := c.CreateCriteriaGroup(ctx, "Services")
	require.NoError(t, err)
	require.NoError(t, c.AttachClause(ctx, other.ID, clause.ID))

	groups, err := c.ListCriteriaGroupsWithClauses(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []domain.Clause{*clause}, groups[1].Clauses)

	bare, err := c.ListCriteriaGroups(ctx)
	require.NoError(t, err)
	require.Len(t, bare, 2)
	assert.Empty(t, bare[0].Clauses)

	require.NoError(t, c.UpdateClause(ctx, clause.ID, "Exit", "Leaving early"))
	clauses, err := c.ListClauses(ctx)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, "Exit", clauses[0].Name)
	assert.Equal(t, "Leaving early", clauses[0].Description)

	require.NoError(t, c.DetachClause(ctx, other.ID, clause.ID))
	groups, err = c.ListCriteriaGroupsWithClauses(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups[1].Clauses)
	assert.Len(t, groups[0].Clauses, 1)

	desc, err := c.GenerateDescription(ctx, "Force Majeure")
	require.NoError(t, err)
	assert.Equal(t, "Identifies provisions relating to force majeure.", desc)

	require.NoError(t, c.DeleteClause(ctx, clause.ID))
	require.NoError(t, c.DeleteCriteriaGroup(ctx, other.ID))
	assert.ErrorIs(t, c.DeleteCriteriaGroup(ctx, other.ID), domain.ErrNotFound)
}

func seedReview(t *testing.T, srv *backendtest.Server) (groupID string, docIDs []string) {
	t.Helper()
	ctx := context.Background()
	srv.Backend.AddDocument(
		domain.Document{ID: "7", CompanyID: "1", Name: "msa.pdf", DocType: "MSA"},
		domain.Chunk{ID: "70", Content: "Either party may invoke termination.", Header: "12. Term"},
		domain.Chunk{ID: "71", Content: "Payment is due in 30 days."},
	)
	g, err := srv.Backend.CreateCriteriaGroup(ctx, "Supply")
	require.NoError(t, err)
	_, err = srv.Backend.CreateClause(ctx, g.ID, "Termination", "")
	require.NoError(t, err)
	return g.ID, []string{"7"}
}

func TestClient_Review(t *testing.T) {
	ctx := context.Background()

	t.Run("array endpoint decodes each item", func(t *testing.T) {
		c, srv := newTestClient(t)
		groupID, ids := seedReview(t, srv)

		result, err := c.Review(ctx, domain.ReviewEndpointArray, groupID, ids)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Termination", result[0].ClauseName)
		require.Len(t, result[0].Quotes, 1)
		assert.Equal(t, domain.Quote{
			DocumentType: "MSA",
			Header:       "12. Term",
			Content:      "Either party may invoke termination.",
		}, result[0].Quotes[0])
		assert.Equal(t, ids, srv.Backend.LastReviewIDs())
		assert.Contains(t, srv.Requests(), "POST /reviews/review1")
	})

	t.Run("object endpoint maps relevant chunks", func(t *testing.T) {
		c, srv := newTestClient(t)
		groupID, ids := seedReview(t, srv)

		result, err := c.Review(ctx, domain.ReviewEndpointObject, groupID, ids)
		require.NoError(t, err)
		require.Len(t, result, 1)
		require.Len(t, result[0].Quotes, 1)
		assert.Equal(t, "Either party may invoke termination.", result[0].Quotes[0].Content)
		assert.Contains(t, srv.Requests(), "POST /reviews/review")
	})

	t.Run("unknown group", func(t *testing.T) {
		c, _ := newTestClient(t)

		_, err := c.Review(ctx, domain.ReviewEndpointArray, "missing", []string{"1"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		c, srv := newTestClient(t)

		_, err := c.Review(ctx, domain.ReviewEndpoint("review2"), "g", nil)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, srv.Requests())
	})
}

func TestDecodeClauseReviews(t *testing.T) {
	raw := []string{
		`{"clause_name":"Indemnity","quotes":[{"document_type":"PO","header":"h","content":"c"}]}`,
		`{"clause_name":"Warranty","quotes":[]}`,
	}

	result, err := decodeClauseReviews(raw)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 1, result.QuoteCount())
	assert.Equal(t, "Warranty", result[1].ClauseName)

	_, err = decodeClauseReviews([]string{"not json"})
	assert.Error(t, err)
}

func TestClient_Chat(t *testing.T) {
	ctx := context.Background()
	c, srv := newTestClient(t)

	reply, err := c.Chat(ctx, "what is the term?", []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, `"what is the term?" answered from 2 document(s)`, reply)
	assert.Equal(t, 1, srv.Backend.Calls("Chat"))
}

func TestClient_BearerToken(t *testing.T) {
	ctx := context.Background()
	srv := backendtest.New(backendtest.WithToken("secret"))
	t.Cleanup(srv.Close)

	anonymous := New(Config{BaseURL: srv.URL})
	_, err := anonymous.ListCompanies(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	authed := New(Config{BaseURL: srv.URL, Token: "secret"})
	_, err = authed.ListCompanies(ctx)
	assert.NoError(t, err)
}

func TestClient_CircuitBreaker(t *testing.T) {
	ctx := context.Background()
	srv := backendtest.New()
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, BreakerThreshold: 2, BreakerCooldown: time.Minute})

	srv.FailWith(http.StatusInternalServerError)
	for range 2 {
		_, err := c.ListCompanies(ctx)
		require.Error(t, err)
	}
	sent := len(srv.Requests())

	srv.FailWith(0)
	_, err := c.ListCompanies(ctx)
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	assert.Len(t, srv.Requests(), sent, "open breaker must not reach the server")
}

func TestClient_ClientErrorsKeepBreakerClosed(t *testing.T) {
	ctx := context.Background()
	srv := backendtest.New()
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL, BreakerThreshold: 1})

	for range 3 {
		assert.ErrorIs(t, c.DeleteCompany(ctx, "missing"), domain.ErrNotFound)
	}
	_, err := c.ListCompanies(ctx)
	assert.NoError(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListCompanies(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Reconfigure(t *testing.T) {
	ctx := context.Background()
	first, second := backendtest.New(), backendtest.New()
	t.Cleanup(first.Close)
	t.Cleanup(second.Close)

	c := New(Config{BaseURL: first.URL})
	_, err := c.CreateCompany(ctx, "Acme")
	require.NoError(t, err)

	c.Reconfigure(Config{BaseURL: second.URL})
	assert.Equal(t, second.URL, c.BaseURL())

	companies, err := c.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)
	assert.Len(t, first.Requests(), 1)
}
