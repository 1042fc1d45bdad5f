package review

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

type fixture struct {
	view    *View
	backend *memory.Backend
	session *services.ReviewSession
	history *services.HistoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	backend := memory.NewBackend()

	acme, err := backend.CreateCompany(ctx, "Acme")
	require.NoError(t, err)
	backend.AddDocument(domain.Document{ID: "msa", CompanyID: acme.ID, Name: "msa.pdf", DocType: "MSA"},
		domain.Chunk{ID: "c1", Content: "Payment is due within 30 days.", Header: "Terms"},
	)
	backend.AddDocument(domain.Document{ID: "sow", CompanyID: acme.ID, Name: "sow.pdf", DocType: "SOW"})
	globex, err := backend.CreateCompany(ctx, "Globex")
	require.NoError(t, err)
	backend.AddDocument(domain.Document{ID: "nda", CompanyID: globex.ID, Name: "nda.pdf"})

	group, err := backend.CreateCriteriaGroup(ctx, "Supply")
	require.NoError(t, err)
	_, err = backend.CreateClause(ctx, group.ID, "Payment", "")
	require.NoError(t, err)
	_, err = backend.CreateClause(ctx, group.ID, "Termination", "")
	require.NoError(t, err)

	history := services.NewHistoryService(memory.NewHistoryStore(), nil)
	session := services.NewReviewSession(backend, history, services.NewSettingsService(memory.NewConfigStore()))
	view := NewView(nil, session)
	view.SetDimensions(150, 50)

	cmd := view.Init()
	require.NotNil(t, cmd)
	view.Update(view.loadOptions()())
	require.NoError(t, view.Err())

	return &fixture{view: view, backend: backend, session: session, history: history}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// chooseCompany picks the first company and loads its documents.
func (f *fixture) chooseCompany(t *testing.T) {
	t.Helper()
	_, cmd := f.view.Update(key("enter"))
	require.NotNil(t, cmd)
	f.view.Update(f.view.loadDocuments(f.session.Current().CompanyID)())
}

// completeDraft selects Acme, the msa document and the Supply group.
func (f *fixture) completeDraft(t *testing.T) {
	t.Helper()
	f.chooseCompany(t)
	f.view.Update(key("tab"))
	f.view.Update(key("space"))
	f.view.Update(key("tab"))
	f.view.Update(key("enter"))
	require.True(t, f.session.Current().IsComplete())
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil)

	require.NotNil(t, view)
	assert.Equal(t, SectionCompany, view.Section())
	assert.False(t, view.Submitting())
}

func TestView_OptionsLoaded(t *testing.T) {
	f := newFixture(t)

	output := f.view.View()
	assert.Contains(t, output, "Acme")
	assert.Contains(t, output, "Globex")
	assert.Contains(t, output, "Supply")
	assert.Contains(t, output, "(2 clauses)")
	assert.Contains(t, output, "Still needed: company, documents, criteria group")
}

func TestView_OptionsError(t *testing.T) {
	view := NewView(nil, nil)

	view.Update(view.loadOptions()())

	require.Error(t, view.Err())
	assert.Contains(t, view.View(), "review service not available")
}

func TestView_ChooseCompanyLoadsDocuments(t *testing.T) {
	f := newFixture(t)

	f.chooseCompany(t)

	assert.NotEmpty(t, f.session.Current().CompanyID)
	output := f.view.View()
	assert.Contains(t, output, "msa.pdf")
	assert.Contains(t, output, "sow.pdf")
	assert.NotContains(t, output, "nda.pdf")
}

func TestView_ChangingCompanyClearsFiles(t *testing.T) {
	f := newFixture(t)
	f.completeDraft(t)

	f.view.Update(key("tab"))
	f.view.Update(key("tab"))
	f.view.Update(key("tab"))
	require.Equal(t, SectionCompany, f.view.Section())
	f.view.Update(key("down"))
	_, cmd := f.view.Update(key("enter"))
	require.NotNil(t, cmd)

	assert.Empty(t, f.session.Current().Files)
	f.view.Update(f.view.loadDocuments(f.session.Current().CompanyID)())
	assert.Contains(t, f.view.View(), "nda.pdf")
}

func TestView_StaleDocumentsIgnored(t *testing.T) {
	f := newFixture(t)
	f.chooseCompany(t)

	f.view.Update(messages.ReviewDocumentsLoaded{CompanyID: "other", Documents: []domain.Document{{ID: "x", Name: "stale.pdf"}}})

	assert.NotContains(t, f.view.View(), "stale.pdf")
}

func TestView_ToggleFiles(t *testing.T) {
	f := newFixture(t)
	f.chooseCompany(t)
	f.view.Update(key("tab"))

	f.view.Update(key("space"))
	f.view.Update(key("down"))
	f.view.Update(key("space"))
	assert.Equal(t, []string{"msa", "sow"}, f.session.Current().Files)

	f.view.Update(key("space"))
	assert.Equal(t, []string{"msa"}, f.session.Current().Files)
	assert.True(t, f.view.fileList.IsChecked("msa"))
	assert.False(t, f.view.fileList.IsChecked("sow"))
}

func TestView_Drafts(t *testing.T) {
	f := newFixture(t)
	f.chooseCompany(t)

	f.view.Update(key("n"))
	assert.Len(t, f.session.Drafts(), 2)
	assert.Equal(t, 1, f.session.CurrentIndex())
	assert.Empty(t, f.session.Current().CompanyID)
	assert.Equal(t, 0, f.view.fileList.Len())

	_, cmd := f.view.Update(key("left"))
	require.NotNil(t, cmd, "returning to a draft refetches its company's documents")
	assert.Equal(t, 0, f.session.CurrentIndex())

	f.view.Update(key("right"))
	assert.Equal(t, 1, f.session.CurrentIndex())
	f.view.Update(key("right"))
	assert.Equal(t, 1, f.session.CurrentIndex(), "clamped at the last draft")

	f.view.Update(key("d"))
	assert.Len(t, f.session.Drafts(), 1)
	require.NoError(t, f.view.Err())

	f.view.Update(key("d"))
	require.Error(t, f.view.Err())
	assert.True(t, errors.Is(f.view.Err(), domain.ErrLastDraft))
}

func TestView_SubmitShowsOverlayAndResult(t *testing.T) {
	f := newFixture(t)
	f.completeDraft(t)

	_, cmd := f.view.Update(key("s"))
	require.NotNil(t, cmd)
	assert.True(t, f.view.Submitting())
	assert.Contains(t, f.view.View(), "Reviewing documents")

	_, ignored := f.view.Update(key("n"))
	assert.Nil(t, ignored, "keys are blocked while submitting")
	assert.Len(t, f.session.Drafts(), 1)

	f.view.Update(f.view.submit()())

	assert.False(t, f.view.Submitting())
	assert.Equal(t, SectionResults, f.view.Section())
	output := f.view.View()
	assert.Contains(t, output, "Payment (1 quote(s))")
	assert.Contains(t, output, "[MSA / Terms]")
	assert.Contains(t, output, "Payment is due within 30 days.")
	assert.Contains(t, output, "no relevant passages found")

	records, err := f.history.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestView_SubmitIncompleteShowsError(t *testing.T) {
	f := newFixture(t)
	f.chooseCompany(t)

	f.view.Update(key("s"))
	f.view.Update(f.view.submit()())

	require.Error(t, f.view.Err())
	assert.True(t, errors.Is(f.view.Err(), domain.ErrIncompleteDraft))
	assert.Contains(t, f.view.View(), "select a documents, criteria group")
	assert.Equal(t, 0, f.backend.Calls("Review"))
}

func TestView_FailedSubmitKeepsPreviousResult(t *testing.T) {
	f := newFixture(t)
	f.completeDraft(t)
	f.view.Update(key("s"))
	f.view.Update(f.view.submit()())
	previous := f.session.LastResult()
	require.NotNil(t, previous)

	f.view.Update(messages.ReviewCompleted{Err: domain.ErrBackendUnavailable})

	assert.Equal(t, previous, f.session.LastResult())
	output := f.view.View()
	assert.Contains(t, output, "review service is unavailable")
	assert.Contains(t, output, "Payment is due within 30 days.")
}

func TestView_PurchaseOrder(t *testing.T) {
	f := newFixture(t)

	f.view.Update(key("tab"))
	f.view.Update(key("tab"))
	_, cmd := f.view.Update(key("tab"))
	require.Equal(t, SectionPurchaseOrder, f.view.Section())
	assert.NotNil(t, cmd)

	f.view.Update(key("/tmp/po.pdf"))
	f.view.Update(key("n"))
	assert.Len(t, f.session.Drafts(), 1, "typing does not trigger shortcuts")

	f.view.Update(key("tab"))
	assert.Equal(t, "/tmp/po.pdfn", f.session.Current().PurchaseOrder)
	assert.Equal(t, SectionResults, f.view.Section())
}

func TestView_Back(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.view.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_DocumentsLoading_ClearsWhenDraftChangesMidFetch(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.view.Update(key("enter"))
	require.NotNil(t, cmd)
	acme := f.session.Current().CompanyID
	require.True(t, f.view.Loading())

	f.view.Update(key("n"))
	assert.False(t, f.view.Loading(), "a draft without a company has nothing to fetch")

	f.view.Update(f.view.loadDocuments(acme)())
	assert.False(t, f.view.Loading())
	assert.NotContains(t, f.view.View(), "Loading...")
}

func TestView_DocumentsLoading_WaitsForCurrentCompany(t *testing.T) {
	f := newFixture(t)

	f.view.Update(key("enter"))
	acme := f.session.Current().CompanyID

	f.view.Update(key("n"))
	f.view.Update(key("down"))
	f.view.Update(key("enter"))
	globex := f.session.Current().CompanyID
	require.NotEqual(t, acme, globex)
	require.True(t, f.view.Loading())

	f.view.Update(f.view.loadDocuments(acme)())
	assert.True(t, f.view.Loading(), "a stale result does not end the current fetch")

	f.view.Update(f.view.loadDocuments(globex)())
	assert.False(t, f.view.Loading())
}
