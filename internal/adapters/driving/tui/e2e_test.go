package tui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/backend/backendtest"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

// contractPDF builds a one-page PDF whose bytes mention text in a comment.
func contractPDF(text string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	fmt.Fprintf(&buf, "%% %s\n", text)
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// first runs cmd and unwraps the first message of a batch.
func first(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.NotEmpty(t, batch)
		return batch[0]()
	}
	return msg
}

func TestEndToEnd_ReviewWorkflow(t *testing.T) {
	ctx := context.Background()
	srv := backendtest.New()
	t.Cleanup(srv.Close)

	client := backend.New(backend.Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	settings := services.NewSettingsService(memory.NewConfigStore())
	documents := services.NewDocumentService(client, upload.NewInspector(0))
	companies := services.NewCompanyService(client, documents)
	criteria := services.NewCriteriaService(client)
	history := services.NewHistoryService(memory.NewHistoryStore(), nil)
	session := services.NewReviewSession(client, history, settings)
	editor := services.NewChunkEditor(client, settings)

	// Company.
	acme, err := companies.Create(ctx, "Acme")
	require.NoError(t, err)
	_, err = companies.Create(ctx, "Acme")
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	// Upload.
	path := filepath.Join(t.TempDir(), "msa.pdf")
	require.NoError(t, os.WriteFile(path, contractPDF("Confidentiality obligations survive termination"), 0o600))
	doc, err := documents.Upload(ctx, acme.ID, path)
	require.NoError(t, err)
	assert.Equal(t, "msa.pdf", doc.Name)
	assert.Equal(t, domain.MIMETypePDF, doc.DocType)
	docs, err := documents.List(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	// Criteria group holding one clause.
	require.NoError(t, criteria.Load(ctx))
	gdpr, err := criteria.CreateGroup(ctx, "GDPR")
	require.NoError(t, err)
	clause, err := criteria.CreateClause(ctx, gdpr.ID, "Confidentiality", "desc")
	require.NoError(t, err)
	group, err := criteria.Group(gdpr.ID)
	require.NoError(t, err)
	require.Len(t, group.Clauses, 1)
	assert.Equal(t, clause.ID, group.Clauses[0].ID)
	assert.Equal(t, "desc", group.Clauses[0].Description)

	// Review through the view, watching the blocking overlay.
	view := review.NewView(nil, session)
	view.SetDimensions(150, 50)
	view.Update(first(t, view.Init()))
	require.NoError(t, view.Err())

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	view.Update(first(t, cmd))
	require.Equal(t, acme.ID, session.Current().CompanyID)
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, session.Current().IsComplete(), "missing: %v", session.Current().Missing())

	_, cmd = view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.True(t, view.Submitting())
	completed, ok := first(t, cmd).(messages.ReviewCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	view.Update(completed)
	assert.False(t, view.Submitting())

	result := session.LastResult()
	require.Len(t, result, 1)
	assert.Equal(t, "Confidentiality", result[0].ClauseName)
	require.Len(t, result[0].Quotes, 1)
	assert.Contains(t, result[0].Quotes[0].Content, "Confidentiality obligations")
	assert.Contains(t, srv.Requests(), "POST /reviews/review1")

	records, err := history.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "GDPR", records[0].CriteriaName)

	// Chunk navigation is clamped at both ends.
	srv.Backend.AddDocument(domain.Document{ID: "sow", CompanyID: acme.ID, Name: "sow.pdf"},
		domain.Chunk{ID: "k1", Header: "Scope"},
		domain.Chunk{ID: "k2", Header: "Fees"},
		domain.Chunk{ID: "k3", Header: "Term"},
	)
	require.NoError(t, editor.Load(ctx, "sow"))
	require.NoError(t, editor.Prev(ctx))
	assert.Equal(t, 0, editor.Index())
	for range 5 {
		require.NoError(t, editor.Next(ctx))
	}
	assert.Equal(t, 2, editor.Index())

	require.NoError(t, editor.SetHeader("Duration"))
	require.NoError(t, editor.Prev(ctx))
	assert.Equal(t, 1, editor.Index())
	chunks, err := client.ListChunks(ctx, "sow")
	require.NoError(t, err)
	assert.Equal(t, "Duration", chunks[2].Header, "moving away saves the edited header")
}
