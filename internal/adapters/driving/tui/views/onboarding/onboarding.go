// Package onboarding provides the manual chunk header editor view for the TUI.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Stage is the part of the onboarding flow on screen.
type Stage int

const (
	// StagePick chooses the document to edit.
	StagePick Stage = iota
	// StageEdit walks the document's chunks.
	StageEdit
)

// View picks a document and edits its chunk headers one at a time.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	editor    driving.ChunkEditor
	companies driving.CompanyService
	documents driving.DocumentService

	companyList  *list.Picker
	documentList *list.Picker
	header       *input.Field
	content      viewport.Model
	spinner      spinner.Model

	stage     Stage
	companyID string
	document  domain.Document
	editing   bool
	saving    bool
	moving    bool
	loading   bool
	err       error
	status    string
	width     int
	height    int
	ready     bool
}

// NewView creates a new onboarding view.
func NewView(
	s *styles.Styles,
	editor driving.ChunkEditor,
	companies driving.CompanyService,
	documents driving.DocumentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	companyList := list.NewPicker(s, km, "Company")
	companyList.SetEmptyText("No companies.")
	documentList := list.NewPicker(s, km, "Document")
	documentList.SetEmptyText("Choose a company.")
	documentList.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:       s,
		keymap:       km,
		editor:       editor,
		companies:    companies,
		documents:    documents,
		companyList:  companyList,
		documentList: documentList,
		header:       input.NewField(s, "Header", "Section heading for this chunk"),
		content:      viewport.New(80, 10),
		spinner:      sp,
	}
}

// Init loads the companies when picking a document.
func (v *View) Init() tea.Cmd {
	if v.stage == StageEdit {
		return nil
	}
	v.loading = true
	return tea.Batch(v.loadCompanies(), v.spinner.Tick)
}

func (v *View) loadCompanies() tea.Cmd {
	return func() tea.Msg {
		if v.companies == nil {
			return messages.CompaniesLoaded{Err: fmt.Errorf("company service not available")}
		}
		companies, err := v.companies.List(context.Background())
		return messages.CompaniesLoaded{Companies: companies, Err: err}
	}
}

func (v *View) loadDocuments(companyID string) tea.Cmd {
	return func() tea.Msg {
		if v.documents == nil {
			return messages.DocumentsLoaded{CompanyID: companyID, Err: fmt.Errorf("document service not available")}
		}
		if docs, ok := v.documents.Cached(companyID); ok {
			return messages.DocumentsLoaded{CompanyID: companyID, Documents: docs}
		}
		docs, err := v.documents.List(context.Background(), companyID)
		return messages.DocumentsLoaded{CompanyID: companyID, Documents: docs, Err: err}
	}
}

func (v *View) loadChunks(documentID string) tea.Cmd {
	return func() tea.Msg {
		if v.editor == nil {
			return messages.ChunksLoaded{DocumentID: documentID, Err: fmt.Errorf("chunk editor not available")}
		}
		return messages.ChunksLoaded{DocumentID: documentID, Err: v.editor.Load(context.Background(), documentID)}
	}
}

func (v *View) save() tea.Cmd {
	v.saving = true
	run := func() tea.Msg {
		return messages.ChunkSaved{Err: v.editor.Save(context.Background())}
	}
	return tea.Batch(run, v.spinner.Tick)
}

func (v *View) move(delta int) tea.Cmd {
	v.moving = true
	run := func() tea.Msg {
		ctx := context.Background()
		if delta < 0 {
			return messages.ChunkMoved{Err: v.editor.Prev(ctx)}
		}
		return messages.ChunkMoved{Err: v.editor.Next(ctx)}
	}
	return tea.Batch(run, v.spinner.Tick)
}

// Update handles messages for the onboarding view.
//
//nolint:gocyclo // one case per message type
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.stage == StagePick {
			return v.handlePickKey(msg)
		}
		return v.handleEditKey(msg)

	case messages.CompaniesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		items := make([]list.Item, 0, len(msg.Companies))
		for _, c := range msg.Companies {
			items = append(items, list.Item{ID: c.ID, Label: c.Name})
		}
		v.companyList.SetItems(items)
		return v, nil

	case messages.DocumentsLoaded:
		if msg.CompanyID != v.companyID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		items := make([]list.Item, 0, len(msg.Documents))
		for _, d := range msg.Documents {
			items = append(items, list.Item{ID: d.ID, Label: d.Name, Hint: d.DocType})
		}
		v.documentList.SetItems(items)
		return v, nil

	case messages.ChunksLoaded:
		if msg.DocumentID != v.document.ID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.syncChunk()
		return v, nil

	case messages.ChunkSaved:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Header saved"
		return v, nil

	case messages.ChunkMoved:
		v.moving = false
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrUnsavedChanges) {
				v.err = fmt.Errorf("unsaved changes: press ctrl+s to save before moving")
			} else {
				v.err = msg.Err
			}
			return v, nil
		}
		v.err = nil
		v.syncChunk()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handlePickKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "tab":
		if v.companyID != "" {
			v.togglePickFocus()
		}
		return v, nil

	case keymap.Matches(key, v.keymap.Select):
		if v.companyList.Focused() {
			item, ok := v.companyList.Selected()
			if !ok {
				return v, nil
			}
			v.companyID = item.ID
			v.companyList.SetChecked([]string{item.ID})
			v.documentList.SetItems(nil)
			v.togglePickFocus()
			v.loading = true
			return v, tea.Batch(v.loadDocuments(item.ID), v.spinner.Tick)
		}
		item, ok := v.documentList.Selected()
		if !ok {
			return v, nil
		}
		return v, v.open(domain.Document{ID: item.ID, Name: item.Label, CompanyID: v.companyID, DocType: item.Hint})

	case keymap.Matches(key, v.keymap.Back):
		if v.documentList.Focused() {
			v.togglePickFocus()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}

	var cmd tea.Cmd
	if v.companyList.Focused() {
		v.companyList, cmd = v.companyList.Update(msg)
	} else {
		v.documentList, cmd = v.documentList.Update(msg)
	}
	return v, cmd
}

// open switches to the editor for doc and loads its chunks.
func (v *View) open(doc domain.Document) tea.Cmd {
	v.document = doc
	v.stage = StageEdit
	v.editing = false
	v.err = nil
	v.status = ""
	v.loading = true
	v.header.Reset()
	v.content.SetContent("")
	return tea.Batch(v.loadChunks(doc.ID), v.spinner.Tick)
}

//nolint:gocyclo // one case per binding
func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.editing {
		switch key {
		case "enter", "esc":
			v.editing = false
			v.header.Blur()
			return v, nil
		case "ctrl+s":
			return v, v.saveIfReady()
		}
		var cmd tea.Cmd
		v.header, cmd = v.header.Update(msg)
		if v.editor != nil {
			if err := v.editor.SetHeader(v.header.Value()); err != nil {
				v.err = err
			}
		}
		v.status = ""
		return v, cmd
	}

	if v.editor == nil {
		if keymap.Matches(key, v.keymap.Back) {
			v.stage = StagePick
		}
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Back):
		v.stage = StagePick
		v.err = nil
		return v, nil

	case keymap.Matches(key, v.keymap.Reload):
		if v.editor.Status() == driving.EditorLoading {
			return v, nil
		}
		return v, v.open(v.document)

	case v.editor.Status() != driving.EditorReady:
		return v, nil

	case keymap.Matches(key, v.keymap.Save):
		return v, v.saveIfReady()

	case keymap.Matches(key, v.keymap.Select):
		if _, err := v.editor.Current(); err != nil {
			v.err = err
			return v, nil
		}
		v.editing = true
		return v, v.header.Focus()

	case keymap.Matches(key, v.keymap.Prev):
		if v.moving || v.saving {
			return v, nil
		}
		return v, v.move(-1)

	case keymap.Matches(key, v.keymap.Next):
		if v.moving || v.saving {
			return v, nil
		}
		return v, v.move(1)
	}

	var cmd tea.Cmd
	v.content, cmd = v.content.Update(msg)
	return v, cmd
}

func (v *View) saveIfReady() tea.Cmd {
	if v.editor == nil || v.saving || v.editor.Status() != driving.EditorReady {
		return nil
	}
	v.status = ""
	return v.save()
}

// syncChunk shows the editor's current chunk.
func (v *View) syncChunk() {
	if v.editor == nil {
		return
	}
	chunk, err := v.editor.Current()
	if err != nil {
		v.header.Reset()
		v.content.SetContent("")
		return
	}
	v.header.SetValue(chunk.Header)
	v.content.SetContent(lipgloss.NewStyle().Width(max(v.content.Width-2, 20)).Render(chunk.Content))
	v.content.GotoTop()
}

func (v *View) togglePickFocus() {
	if v.companyList.Focused() {
		v.companyList.Blur()
		v.documentList.Focus()
		return
	}
	v.documentList.Blur()
	v.companyList.Focus()
}

func (v *View) busy() bool {
	return v.loading || v.saving || v.moving
}

// View renders the onboarding view.
func (v *View) View() string {
	if v.stage == StagePick {
		return v.viewPick()
	}
	return v.viewEdit()
}

func (v *View) viewPick() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Onboarding"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Choose a document to review its chunk headers."))
	b.WriteString("\n\n")

	paneWidth := max(v.width/2-2, 20)
	left := lipgloss.NewStyle().Width(paneWidth).Render(v.companyList.View())
	right := lipgloss.NewStyle().Width(paneWidth).Render(v.documentList.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Loading..."))
		b.WriteString("\n")
	}
	v.writeErr(&b)
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [tab] switch  [esc] back"))
	return b.String()
}

func (v *View) viewEdit() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Onboarding - " + v.document.Name))
	b.WriteString("\n\n")

	status := driving.EditorLoading
	if v.editor != nil {
		status = v.editor.Status()
	}

	switch status {
	case driving.EditorLoading:
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Loading chunks..."))
		b.WriteString("\n\n")
	case driving.EditorError:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Could not load chunks: %s", v.editor.Err())))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[r] retry  [esc] back"))
		return b.String()
	case driving.EditorReady:
		chunks := v.editor.Chunks()
		if len(chunks) == 0 {
			b.WriteString(v.styles.Muted.Render("This document has no chunks."))
			b.WriteString("\n\n")
			b.WriteString(v.styles.Help.Render("[r] reload  [esc] back"))
			return b.String()
		}
		pos := fmt.Sprintf("Chunk %d of %d", v.editor.Index()+1, len(chunks))
		if v.editor.Dirty() {
			pos += v.styles.Warning.Render("  (unsaved)")
		}
		b.WriteString(v.styles.Subtitle.Render(pos))
		b.WriteString("\n\n")
		b.WriteString(v.header.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Border.Render(v.content.View()))
		b.WriteString("\n")
	}

	if v.saving {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Saving..."))
		b.WriteString("\n")
	}
	if v.status != "" && v.err == nil {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}
	v.writeErr(&b)

	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter/esc] done  [ctrl+s] save"))
	} else {
		b.WriteString(v.styles.Help.Render("[←/→] previous/next  [enter] edit header  [ctrl+s] save  [r] reload  [esc] back"))
	}
	return b.String()
}

func (v *View) writeErr(b *strings.Builder) {
	if v.err == nil {
		return
	}
	b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	b.WriteString("\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	rows := max(height-10, 3)
	v.companyList.SetSize(max(width/2-2, 20), rows)
	v.documentList.SetSize(max(width/2-2, 20), rows)
	v.header.SetWidth(width)
	v.content.Width = max(width-2, 20)
	v.content.Height = max(height-14, 4)
}

// Stage returns the visible stage.
func (v *View) Stage() Stage {
	return v.stage
}

// Editing reports whether the header field has focus.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
