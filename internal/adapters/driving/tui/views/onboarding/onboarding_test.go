package onboarding

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
)

type fixture struct {
	view     *View
	backend  *memory.Backend
	editor   *services.ChunkEditor
	settings *services.SettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := memory.NewBackend()
	acme, err := backend.CreateCompany(context.Background(), "Acme")
	require.NoError(t, err)
	backend.AddDocument(
		domain.Document{ID: "msa", CompanyID: acme.ID, Name: "msa.pdf", DocType: "MSA"},
		domain.Chunk{ID: "c1", Header: "Definitions", Content: "In this agreement..."},
		domain.Chunk{ID: "c2", Header: "", Content: "Either party may terminate..."},
		domain.Chunk{ID: "c3", Header: "Liability", Content: "Liability is capped at..."},
	)
	backend.AddDocument(domain.Document{ID: "blank", CompanyID: acme.ID, Name: "blank.pdf"})

	settings := services.NewSettingsService(memory.NewConfigStore())
	editor := services.NewChunkEditor(backend, settings)
	documents := services.NewDocumentService(backend, upload.NewInspector(0))
	companies := services.NewCompanyService(backend, documents)

	view := NewView(nil, editor, companies, documents)
	view.SetDimensions(120, 40)
	return &fixture{view: view, backend: backend, editor: editor, settings: settings}
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
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// run executes the first command of a batch, skipping the spinner tick.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		require.NotEmpty(t, batch)
		return batch[0]()
	}
	return msg
}

// openDocument walks the picker into the editor for the given document.
func (f *fixture) openDocument(t *testing.T, id string) {
	t.Helper()
	f.view.Update(f.view.loadCompanies()())
	_, cmd := f.view.Update(key("enter"))
	f.view.Update(run(t, cmd))

	f.view.documentList.SelectID(id)
	_, cmd = f.view.Update(key("enter"))
	f.view.Update(run(t, cmd))
	require.Equal(t, StageEdit, f.view.Stage())
}

func TestNewView(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	require.NotNil(t, view)
	assert.Equal(t, StagePick, view.Stage())
	assert.False(t, view.Editing())
	assert.Contains(t, view.View(), "Onboarding")
}

func TestView_InitLoadsCompanies(t *testing.T) {
	f := newFixture(t)

	require.NotNil(t, f.view.Init())
	f.view.Update(f.view.loadCompanies()())

	assert.Equal(t, 1, f.view.companyList.Len())
	assert.Contains(t, f.view.View(), "Acme")
}

func TestView_InitWithoutServices(t *testing.T) {
	view := NewView(nil, nil, nil, nil)

	view.Update(view.loadCompanies()())

	require.Error(t, view.Err())
	assert.Contains(t, view.View(), "company service not available")
}

func TestView_PickCompanyListsDocuments(t *testing.T) {
	f := newFixture(t)
	f.view.Update(f.view.loadCompanies()())

	_, cmd := f.view.Update(key("enter"))
	f.view.Update(run(t, cmd))

	assert.Equal(t, 2, f.view.documentList.Len())
	assert.True(t, f.view.documentList.Focused())
	assert.Contains(t, f.view.View(), "msa.pdf")
}

func TestView_StaleDocumentsIgnored(t *testing.T) {
	f := newFixture(t)
	f.view.Update(f.view.loadCompanies()())
	_, cmd := f.view.Update(key("enter"))
	f.view.Update(run(t, cmd))

	f.view.Update(messages.DocumentsLoaded{CompanyID: "other", Documents: []domain.Document{{ID: "x", Name: "x.pdf"}}})

	assert.Equal(t, 2, f.view.documentList.Len())
}

func TestView_OpenLoadsChunks(t *testing.T) {
	f := newFixture(t)

	f.openDocument(t, "msa")

	assert.Equal(t, driving.EditorReady, f.editor.Status())
	assert.Equal(t, "Definitions", f.view.header.Value())
	out := f.view.View()
	assert.Contains(t, out, "Chunk 1 of 3")
	assert.Contains(t, out, "In this agreement")
}

func TestView_EmptyDocument(t *testing.T) {
	f := newFixture(t)

	f.openDocument(t, "blank")

	assert.Contains(t, f.view.View(), "This document has no chunks.")
}

func TestView_LoadErrorShowsRetry(t *testing.T) {
	f := newFixture(t)
	f.view.Update(f.view.open(domain.Document{ID: "missing", Name: "missing.pdf"})().(tea.BatchMsg)[0]())

	assert.Equal(t, driving.EditorError, f.editor.Status())
	out := f.view.View()
	assert.Contains(t, out, "Could not load chunks")
	assert.Contains(t, out, "[r] retry")

	_, cmd := f.view.Update(key("r"))
	assert.NotNil(t, cmd)
}

func TestView_EditHeaderMarksDirty(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")

	_, _ = f.view.Update(key("enter"))
	require.True(t, f.view.Editing())
	f.view.Update(key("!"))

	assert.True(t, f.editor.Dirty())
	assert.Contains(t, f.view.View(), "(unsaved)")

	f.view.Update(key("enter"))
	assert.False(t, f.view.Editing())
	assert.Equal(t, "Definitions!", f.view.header.Value())
}

func TestView_SaveHeader(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")
	f.view.Update(key("enter"))
	f.view.Update(key("!"))
	f.view.Update(key("enter"))

	_, cmd := f.view.Update(key("ctrl+s"))
	f.view.Update(run(t, cmd))

	require.NoError(t, f.view.Err())
	assert.Equal(t, 1, f.backend.Calls("UpdateChunkHeader"))
	assert.False(t, f.editor.Dirty())
	assert.Contains(t, f.view.View(), "Header saved")
}

func TestView_SaveWhileSavingIgnored(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")

	_, first := f.view.Update(key("ctrl+s"))
	_, second := f.view.Update(key("ctrl+s"))

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_NavigateAutosaves(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")
	f.view.Update(key("enter"))
	f.view.Update(key("!"))
	f.view.Update(key("enter"))

	_, cmd := f.view.Update(key("right"))
	f.view.Update(run(t, cmd))

	require.NoError(t, f.view.Err())
	assert.Equal(t, 1, f.backend.Calls("UpdateChunkHeader"))
	assert.Equal(t, 1, f.editor.Index())
	assert.Contains(t, f.view.View(), "Chunk 2 of 3")
	assert.Empty(t, f.view.header.Value())
}

func TestView_NavigateBlockedWithoutAutosave(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.settings.SetAutosave(false))
	f.openDocument(t, "msa")
	f.view.Update(key("enter"))
	f.view.Update(key("!"))
	f.view.Update(key("enter"))

	_, cmd := f.view.Update(key("right"))
	f.view.Update(run(t, cmd))

	require.Error(t, f.view.Err())
	assert.Contains(t, f.view.View(), "press ctrl+s to save before moving")
	assert.Equal(t, 0, f.editor.Index())
	assert.Zero(t, f.backend.Calls("UpdateChunkHeader"))
}

func TestView_NavigateWhileMovingIgnored(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")

	_, first := f.view.Update(key("right"))
	_, second := f.view.Update(key("right"))

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_PrevAtStartStays(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")

	_, cmd := f.view.Update(key("left"))
	f.view.Update(run(t, cmd))

	require.NoError(t, f.view.Err())
	assert.Equal(t, 0, f.editor.Index())
}

func TestView_EscReturnsToPicker(t *testing.T) {
	f := newFixture(t)
	f.openDocument(t, "msa")

	f.view.Update(key("esc"))
	assert.Equal(t, StagePick, f.view.Stage())

	f.view.Update(key("esc"))
	_, cmd := f.view.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_SpinnerTickIgnoredWhenIdle(t *testing.T) {
	f := newFixture(t)

	_, cmd := f.view.Update(f.view.spinner.Tick())

	assert.Nil(t, cmd)
}
