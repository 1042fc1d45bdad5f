// Package documents provides the company and document manager view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
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

// Mode is what the view is currently doing with keyboard input.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeNewCompany
	ModeUpload
	ModeConfirmDelete
)

// pane identifies which list has focus.
type pane int

const (
	paneCompanies pane = iota
	paneDocuments
)

// View manages companies on the left and the selected company's documents
// on the right.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	companies driving.CompanyService
	documents driving.DocumentService

	companyList  *list.Picker
	documentList *list.Picker
	nameInput    *input.Field
	pathInput    *input.Field
	spinner      spinner.Model

	companyData  []domain.Company
	documentData []domain.Document
	companyID    string

	focus     pane
	mode      Mode
	loading   bool
	uploading bool
	err       error
	status    string
	width     int
	height    int
	ready     bool
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, companies driving.CompanyService, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	companyList := list.NewPicker(s, km, "Companies")
	companyList.SetEmptyText("No companies. Press n to create one.")
	documentList := list.NewPicker(s, km, "Documents")
	documentList.SetEmptyText("No documents. Press u to upload a PDF or TIFF.")
	documentList.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:       s,
		keymap:       km,
		companies:    companies,
		documents:    documents,
		companyList:  companyList,
		documentList: documentList,
		nameInput:    input.NewField(s, "Company name", "Acme Ltd"),
		pathInput:    input.NewField(s, "File path", "/path/to/contract.pdf"),
		spinner:      sp,
	}
}

// Init loads the companies.
func (v *View) Init() tea.Cmd {
	return v.startLoading(v.loadCompanies())
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
		docs, err := v.documents.List(context.Background(), companyID)
		return messages.DocumentsLoaded{CompanyID: companyID, Documents: docs, Err: err}
	}
}

func (v *View) createCompany(name string) tea.Cmd {
	return func() tea.Msg {
		if v.companies == nil {
			return messages.CompanyCreated{Err: fmt.Errorf("company service not available")}
		}
		company, err := v.companies.Create(context.Background(), name)
		return messages.CompanyCreated{Company: company, Err: err}
	}
}

func (v *View) deleteCompany(id string) tea.Cmd {
	return func() tea.Msg {
		if v.companies == nil {
			return messages.CompanyDeleted{ID: id, Err: fmt.Errorf("company service not available")}
		}
		return messages.CompanyDeleted{ID: id, Err: v.companies.Delete(context.Background(), id)}
	}
}

func (v *View) uploadDocument(companyID, path string) tea.Cmd {
	return func() tea.Msg {
		if v.documents == nil {
			return messages.DocumentUploaded{CompanyID: companyID, Err: fmt.Errorf("document service not available")}
		}
		doc, err := v.documents.Upload(context.Background(), companyID, path)
		return messages.DocumentUploaded{CompanyID: companyID, Document: doc, Err: err}
	}
}

func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.documents == nil {
			return messages.DocumentDeleted{ID: id, Err: fmt.Errorf("document service not available")}
		}
		return messages.DocumentDeleted{ID: id, Err: v.documents.Delete(context.Background(), id)}
	}
}

// Update handles messages for the documents view.
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
		switch v.mode {
		case ModeNewCompany:
			return v.handleNameKey(msg)
		case ModeUpload:
			return v.handlePathKey(msg)
		case ModeConfirmDelete:
			return v.handleConfirmKey(msg)
		case ModeBrowse:
		}
		return v.handleBrowseKey(msg)

	case messages.CompaniesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.companyData = msg.Companies
		v.refreshCompanyList()
		if v.companyID != "" {
			if _, ok := v.findCompany(v.companyID); !ok {
				v.clearCompany()
			}
		}
		return v, nil

	case messages.CompanyCreated:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Company != nil {
			v.status = fmt.Sprintf("Created %s", msg.Company.Name)
			v.companyID = msg.Company.ID
		}
		return v, v.startLoading(v.loadCompanies())

	case messages.CompanyDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Company deleted"
		if msg.ID == v.companyID {
			v.clearCompany()
		}
		return v, v.startLoading(v.loadCompanies())

	case messages.DocumentsLoaded:
		if msg.CompanyID != v.companyID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documentData = msg.Documents
		v.refreshDocumentList()
		return v, nil

	case messages.DocumentUploaded:
		v.uploading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		if msg.Document != nil {
			v.status = fmt.Sprintf("Uploaded %s", msg.Document.Name)
		}
		v.pathInput.Reset()
		if msg.CompanyID != v.companyID {
			return v, nil
		}
		return v, v.startLoading(v.loadDocuments(v.companyID))

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Document deleted"
		if v.companyID == "" {
			return v, nil
		}
		return v, v.startLoading(v.loadDocuments(v.companyID))

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "tab":
		v.switchPane()
		return v, nil

	case keymap.Matches(key, v.keymap.Select):
		if v.focus == paneCompanies {
			return v, v.openSelectedCompany()
		}
		return v, nil

	case keymap.Matches(key, v.keymap.New):
		v.mode = ModeNewCompany
		v.nameInput.Reset()
		return v, v.nameInput.Focus()

	case key == "u":
		if v.companyID == "" {
			v.err = fmt.Errorf("select a company before uploading")
			return v, nil
		}
		if v.uploading {
			return v, nil
		}
		v.mode = ModeUpload
		return v, v.pathInput.Focus()

	case keymap.Matches(key, v.keymap.Delete):
		if v.currentTarget() == "" {
			return v, nil
		}
		v.mode = ModeConfirmDelete
		return v, nil

	case keymap.Matches(key, v.keymap.Reload):
		cmds := []tea.Cmd{v.loadCompanies()}
		if v.companyID != "" {
			if v.documents != nil {
				v.documents.Forget(v.companyID)
			}
			cmds = append(cmds, v.loadDocuments(v.companyID))
		}
		return v, v.startLoading(tea.Batch(cmds...))

	case keymap.Matches(key, v.keymap.Back):
		if v.focus == paneDocuments {
			v.switchPane()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}

	var cmd tea.Cmd
	if v.focus == paneCompanies {
		v.companyList, cmd = v.companyList.Update(msg)
	} else {
		v.documentList, cmd = v.documentList.Update(msg)
	}
	return v, cmd
}

func (v *View) handleNameKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ModeBrowse
		v.nameInput.Blur()
		return v, nil
	case "enter":
		name := strings.TrimSpace(v.nameInput.Value())
		v.mode = ModeBrowse
		v.nameInput.Blur()
		v.status = ""
		return v, v.createCompany(name)
	}
	var cmd tea.Cmd
	v.nameInput, cmd = v.nameInput.Update(msg)
	return v, cmd
}

func (v *View) handlePathKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ModeBrowse
		v.pathInput.Blur()
		return v, nil
	case "enter":
		path := strings.TrimSpace(v.pathInput.Value())
		v.mode = ModeBrowse
		v.pathInput.Blur()
		if path == "" {
			return v, nil
		}
		v.uploading = true
		v.status = ""
		return v, tea.Batch(v.uploadDocument(v.companyID, path), v.spinner.Tick)
	}
	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.mode = ModeBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		return v, nil
	}
	id := v.currentTarget()
	if id == "" {
		return v, nil
	}
	v.status = ""
	if v.focus == paneCompanies {
		return v, v.deleteCompany(id)
	}
	return v, v.deleteDocument(id)
}

// openSelectedCompany loads the highlighted company's documents and moves
// focus to them.
func (v *View) openSelectedCompany() tea.Cmd {
	item, ok := v.companyList.Selected()
	if !ok {
		return nil
	}
	v.companyID = item.ID
	v.companyList.SetChecked([]string{item.ID})
	v.documentData = nil
	v.refreshDocumentList()
	v.focus = paneCompanies
	v.switchPane()
	return v.startLoading(v.loadDocuments(item.ID))
}

func (v *View) startLoading(cmd tea.Cmd) tea.Cmd {
	v.loading = true
	return tea.Batch(cmd, v.spinner.Tick)
}

func (v *View) switchPane() {
	if v.focus == paneCompanies && v.companyID != "" {
		v.focus = paneDocuments
		v.companyList.Blur()
		v.documentList.Focus()
		return
	}
	v.focus = paneCompanies
	v.documentList.Blur()
	v.companyList.Focus()
}

func (v *View) currentTarget() string {
	var item list.Item
	var ok bool
	if v.focus == paneCompanies {
		item, ok = v.companyList.Selected()
	} else {
		item, ok = v.documentList.Selected()
	}
	if !ok {
		return ""
	}
	return item.ID
}

func (v *View) clearCompany() {
	v.companyID = ""
	v.documentData = nil
	v.refreshDocumentList()
	v.focus = paneDocuments
	v.switchPane()
}

func (v *View) refreshCompanyList() {
	items := make([]list.Item, 0, len(v.companyData))
	for _, c := range v.companyData {
		items = append(items, list.Item{ID: c.ID, Label: c.Name})
	}
	v.companyList.SetItems(items)
	v.companyList.SetChecked([]string{v.companyID})
}

func (v *View) refreshDocumentList() {
	items := make([]list.Item, 0, len(v.documentData))
	for _, d := range v.documentData {
		hint := ""
		if d.DocType != "" {
			hint = "(" + d.DocType + ")"
		}
		items = append(items, list.Item{ID: d.ID, Label: d.Name, Hint: hint})
	}
	v.documentList.SetItems(items)
}

func (v *View) findCompany(id string) (domain.Company, bool) {
	for _, c := range v.companyData {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Company{}, false
}

func (v *View) busy() bool {
	return v.loading || v.uploading
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	title := "Documents"
	if c, ok := v.findCompany(v.companyID); ok {
		title = fmt.Sprintf("Documents - %s (%d)", c.Name, len(v.documentData))
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	paneWidth := max(v.width/2-2, 20)
	left := lipgloss.NewStyle().Width(paneWidth).Render(v.companyList.View())
	right := lipgloss.NewStyle().Width(paneWidth).Render(v.documentList.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	switch v.mode {
	case ModeNewCompany:
		b.WriteString(v.nameInput.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] create  [esc] cancel"))
		b.WriteString("\n")
	case ModeUpload:
		b.WriteString(v.pathInput.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] upload  [esc] cancel"))
		b.WriteString("\n")
	case ModeConfirmDelete:
		b.WriteString(v.styles.Warning.Render(v.confirmPrompt()))
		b.WriteString("\n")
	case ModeBrowse:
	}

	switch {
	case v.uploading:
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Uploading..."))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Loading..."))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	} else if v.status != "" {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) confirmPrompt() string {
	if v.focus == paneCompanies {
		item, _ := v.companyList.Selected()
		return fmt.Sprintf("Delete company %q and all its documents? [y/N]", item.Label)
	}
	item, _ := v.documentList.Selected()
	return fmt.Sprintf("Delete document %q? [y/N]", item.Label)
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render(
		"[↑/↓] navigate  [tab] switch pane  [enter] open  [n] new company  [u] upload  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	rows := max(height-12, 3)
	v.companyList.SetSize(max(width/2-2, 20), rows)
	v.documentList.SetSize(max(width/2-2, 20), rows)
	v.nameInput.SetWidth(width)
	v.pathInput.SetWidth(width)
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// CompanyID returns the company whose documents are shown.
func (v *View) CompanyID() string {
	return v.companyID
}

// Companies returns the loaded companies.
func (v *View) Companies() []domain.Company {
	return v.companyData
}

// Documents returns the documents of the open company.
func (v *View) Documents() []domain.Document {
	return v.documentData
}

// Uploading reports whether an upload is in flight.
func (v *View) Uploading() bool {
	return v.uploading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
