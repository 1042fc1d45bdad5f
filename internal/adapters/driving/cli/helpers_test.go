package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/export"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

// testEnv holds the in-memory backend behind the wired services.
type testEnv struct {
	backend  *memory.Backend
	history  *memory.HistoryStore
	settings *services.SettingsService
}

// setupTestServices wires real services over in-memory adapters.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	backend := memory.NewBackend()
	history := memory.NewHistoryStore()
	settings := services.NewSettingsService(memory.NewConfigStore())
	documents := services.NewDocumentService(backend, upload.NewInspector(0))
	historySvc := services.NewHistoryService(history, export.NewXLSXExporter())

	SetServices(Services{
		Company:  services.NewCompanyService(backend, documents),
		Document: documents,
		Criteria: services.NewCriteriaService(backend),
		Review:   services.NewReviewSession(backend, historySvc, settings),
		Chat:     services.NewChatSession(backend),
		Chunks:   services.NewChunkEditor(backend, settings),
		History:  historySvc,
		Settings: settings,
	})
	t.Cleanup(func() { SetServices(Services{}) })

	return &testEnv{backend: backend, history: history, settings: settings}
}

// seed creates a company with one document holding the given chunks.
func (e *testEnv) seed(t *testing.T, company, docID string, chunks ...domain.Chunk) domain.Company {
	t.Helper()
	c, err := e.backend.CreateCompany(context.Background(), company)
	require.NoError(t, err)
	e.backend.AddDocument(domain.Document{ID: docID, CompanyID: c.ID, Name: docID + ".pdf", DocType: "MSA"}, chunks...)
	return *c
}

// seedGroup creates a criteria group with one clause per name.
func (e *testEnv) seedGroup(t *testing.T, name string, clauses ...string) domain.CriteriaGroup {
	t.Helper()
	ctx := context.Background()
	g, err := e.backend.CreateCriteriaGroup(ctx, name)
	require.NoError(t, err)
	for _, c := range clauses {
		_, err := e.backend.CreateClause(ctx, g.ID, c, "")
		require.NoError(t, err)
	}
	return *g
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetCommandState()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// resetCommandState clears flag values left over from earlier executions.
func resetCommandState() {
	companyFormat, documentFormat, chunkFormat = formatText, formatText, formatText
	criteriaFormat, historyFormat, reviewFormat = formatText, formatText, formatText
	chunkFull, groupDeleteYes, historyYes = false, false, false
	clauseDescription, clauseNewName, clauseGenerate = "", "", false
	reviewCompany, reviewGroup, reviewPO = "", "", ""
	reviewDocs, reviewAllDocs = nil, false
	chatCompany, chatQuery, chatDocs = "", "", nil

	var clear func(c *cobra.Command)
	clear = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		for _, sub := range c.Commands() {
			clear(sub)
		}
	}
	clear(rootCmd)
}
