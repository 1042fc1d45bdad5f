// Package review provides the review session view for the TUI.
package review

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
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/result"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Section identifies the focused part of the draft form.
type Section int

const (
	SectionCompany Section = iota
	SectionFiles
	SectionGroup
	SectionPurchaseOrder
	SectionResults
)

const sectionCount = 5

// View composes review drafts, submits them and shows the last result.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.ReviewSession

	companyList *list.Picker
	fileList    *list.Picker
	groupList   *list.Picker
	poField     *input.Field
	results     viewport.Model
	spinner     spinner.Model

	options   *driving.ReviewOptions
	documents []domain.Document
	docsFor   string

	// loadingOptions covers the company and group fetch; pendingDocs is the
	// company whose documents are in flight.
	loadingOptions bool
	pendingDocs    string
	submitting     bool

	section Section
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new review view.
func NewView(s *styles.Styles, session driving.ReviewSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	companyList := list.NewPicker(s, km, "Company")
	companyList.SetEmptyText("No companies available.")
	fileList := list.NewPicker(s, km, "Documents").WithCheckboxes()
	fileList.SetEmptyText("Choose a company first.")
	groupList := list.NewPicker(s, km, "Criteria group")
	groupList.SetEmptyText("No criteria groups available.")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	v := &View{
		styles:      s,
		keymap:      km,
		session:     session,
		companyList: companyList,
		fileList:    fileList,
		groupList:   groupList,
		poField:     input.NewField(s, "Purchase order (optional)", "/path/to/po.pdf"),
		results:     viewport.New(80, 10),
		spinner:     sp,
	}
	v.focusSection(SectionCompany)
	return v
}

// Init loads companies and criteria groups.
func (v *View) Init() tea.Cmd {
	v.loadingOptions = true
	return tea.Batch(v.loadOptions(), v.spinner.Tick)
}

func (v *View) loadOptions() tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ReviewOptionsLoaded{Err: fmt.Errorf("review service not available")}
		}
		opts, err := v.session.LoadOptions(context.Background())
		return messages.ReviewOptionsLoaded{Options: opts, Err: err}
	}
}

func (v *View) loadDocuments(companyID string) tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ReviewDocumentsLoaded{CompanyID: companyID, Err: fmt.Errorf("review service not available")}
		}
		docs, err := v.session.Documents(context.Background())
		return messages.ReviewDocumentsLoaded{CompanyID: companyID, Documents: docs, Err: err}
	}
}

func (v *View) submit() tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ReviewCompleted{Err: fmt.Errorf("review service not available")}
		}
		res, err := v.session.Submit(context.Background())
		return messages.ReviewCompleted{Result: res, Err: err}
	}
}

// Update handles messages for the review view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.Loading() && !v.submitting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		return v.handleKey(msg)

	case messages.ReviewOptionsLoaded:
		v.loadingOptions = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.options = msg.Options
		v.syncDraft()
		return v, v.refetchDocuments()

	case messages.ReviewDocumentsLoaded:
		if msg.CompanyID == v.pendingDocs {
			v.pendingDocs = ""
		}
		if v.session == nil || msg.CompanyID != v.session.Current().CompanyID {
			return v, nil
		}
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.docsFor = msg.CompanyID
		v.syncDraft()
		return v, nil

	case messages.ReviewCompleted:
		v.submitting = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.renderResults()
		v.focusSection(SectionResults)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

//nolint:gocyclo // one case per binding
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.section == SectionPurchaseOrder {
		switch key {
		case "tab", "shift+tab", "esc", "enter":
			if v.session != nil {
				v.session.SetPurchaseOrder(strings.TrimSpace(v.poField.Value()))
			}
		default:
			var cmd tea.Cmd
			v.poField, cmd = v.poField.Update(msg)
			return v, cmd
		}
	}

	switch {
	case key == "tab":
		return v, v.focusSection((v.section + 1) % sectionCount)
	case key == "shift+tab":
		return v, v.focusSection((v.section + sectionCount - 1) % sectionCount)

	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case v.session == nil:
		return v, nil

	case keymap.Matches(key, v.keymap.Prev), key == "[":
		return v, v.selectDraft(v.session.CurrentIndex() - 1)
	case keymap.Matches(key, v.keymap.Next), key == "]":
		return v, v.selectDraft(v.session.CurrentIndex() + 1)

	case keymap.Matches(key, v.keymap.New):
		v.session.AddDraft()
		v.err = nil
		return v, v.draftChanged()

	case keymap.Matches(key, v.keymap.Delete):
		if err := v.session.RemoveCurrent(); err != nil {
			v.err = err
			return v, nil
		}
		v.err = nil
		return v, v.draftChanged()

	case keymap.Matches(key, v.keymap.Submit):
		v.submitting = true
		v.err = nil
		return v, tea.Batch(v.submit(), v.spinner.Tick)

	case keymap.Matches(key, v.keymap.Select), keymap.Matches(key, v.keymap.Toggle):
		return v, v.choose()

	case keymap.Matches(key, v.keymap.Reload):
		v.loadingOptions = true
		return v, tea.Batch(v.loadOptions(), v.spinner.Tick)
	}

	var cmd tea.Cmd
	switch v.section {
	case SectionCompany:
		v.companyList, cmd = v.companyList.Update(msg)
	case SectionFiles:
		v.fileList, cmd = v.fileList.Update(msg)
	case SectionGroup:
		v.groupList, cmd = v.groupList.Update(msg)
	case SectionResults:
		v.results, cmd = v.results.Update(msg)
	case SectionPurchaseOrder:
	}
	return v, cmd
}

// choose applies the highlighted item of the focused section to the draft.
func (v *View) choose() tea.Cmd {
	switch v.section {
	case SectionCompany:
		item, ok := v.companyList.Selected()
		if !ok || item.ID == v.session.Current().CompanyID {
			return nil
		}
		v.session.SetCompany(item.ID)
		return v.draftChanged()

	case SectionFiles:
		item, ok := v.fileList.Selected()
		if !ok {
			return nil
		}
		v.session.ToggleFile(item.ID)
		v.syncDraft()

	case SectionGroup:
		item, ok := v.groupList.Selected()
		if !ok || v.options == nil {
			return nil
		}
		for i := range v.options.Groups {
			if v.options.Groups[i].ID == item.ID {
				g := v.options.Groups[i]
				v.session.SetCriteriaGroup(&g)
			}
		}
		v.syncDraft()

	case SectionPurchaseOrder, SectionResults:
	}
	return nil
}

func (v *View) selectDraft(index int) tea.Cmd {
	if index < 0 || index >= len(v.session.Drafts()) {
		return nil
	}
	if err := v.session.Select(index); err != nil {
		v.err = err
		return nil
	}
	return v.draftChanged()
}

// draftChanged resyncs the form with the current draft and refetches its
// company's documents.
func (v *View) draftChanged() tea.Cmd {
	v.documents = nil
	v.docsFor = ""
	v.syncDraft()
	return v.refetchDocuments()
}

func (v *View) refetchDocuments() tea.Cmd {
	if v.session == nil {
		return nil
	}
	companyID := v.session.Current().CompanyID
	if companyID == "" || companyID == v.docsFor {
		v.pendingDocs = ""
		return nil
	}
	v.pendingDocs = companyID
	return tea.Batch(v.loadDocuments(companyID), v.spinner.Tick)
}

// syncDraft rebuilds the pickers from the options and the current draft.
func (v *View) syncDraft() {
	if v.session == nil {
		return
	}
	draft := v.session.Current()

	if v.options != nil {
		companies := make([]list.Item, 0, len(v.options.Companies))
		for _, c := range v.options.Companies {
			companies = append(companies, list.Item{ID: c.ID, Label: c.Name})
		}
		v.companyList.SetItems(companies)

		groups := make([]list.Item, 0, len(v.options.Groups))
		for _, g := range v.options.Groups {
			groups = append(groups, list.Item{ID: g.ID, Label: g.Name, Hint: fmt.Sprintf("(%d clauses)", len(g.Clauses))})
		}
		v.groupList.SetItems(groups)
	}
	v.companyList.SetChecked([]string{draft.CompanyID})
	if draft.CriteriaGroup != nil {
		v.groupList.SetChecked([]string{draft.CriteriaGroup.ID})
	} else {
		v.groupList.SetChecked(nil)
	}

	if draft.CompanyID == "" || draft.CompanyID != v.docsFor {
		v.fileList.SetItems(nil)
	} else {
		files := make([]list.Item, 0, len(v.documents))
		for _, d := range v.documents {
			files = append(files, list.Item{ID: d.ID, Label: d.Name})
		}
		v.fileList.SetItems(files)
	}
	v.fileList.SetChecked(draft.Files)
	v.poField.SetValue(draft.PurchaseOrder)
}

func (v *View) focusSection(section Section) tea.Cmd {
	v.section = section
	v.companyList.Blur()
	v.fileList.Blur()
	v.groupList.Blur()
	v.poField.Blur()
	switch section {
	case SectionCompany:
		v.companyList.Focus()
	case SectionFiles:
		v.fileList.Focus()
	case SectionGroup:
		v.groupList.Focus()
	case SectionPurchaseOrder:
		return v.poField.Focus()
	case SectionResults:
	}
	return nil
}

func (v *View) renderResults() {
	if v.session == nil {
		return
	}
	last := v.session.LastResult()
	if last == nil {
		v.results.SetContent(v.styles.Muted.Render("No review submitted yet."))
		return
	}

	v.results.SetContent(result.Render(v.styles, last, v.width))
	v.results.GotoTop()
}

// View renders the review view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Review"))
	b.WriteString("  ")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")

	if v.submitting {
		overlay := v.styles.Overlay.Render(v.spinner.View() + " Reviewing documents, please wait...")
		b.WriteString(lipgloss.Place(max(v.width, 40), max(v.height-4, 5), lipgloss.Center, lipgloss.Center, overlay))
		return b.String()
	}

	colWidth := max(v.width/3-2, 20)
	col := lipgloss.NewStyle().Width(colWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(v.companyList.View()), "  ",
		col.Render(v.fileList.View()), "  ",
		col.Render(v.groupList.View()),
	))
	b.WriteString("\n\n")
	b.WriteString(v.poField.View())
	b.WriteString("\n")

	if v.session != nil {
		if missing := v.session.Current().Missing(); len(missing) > 0 {
			b.WriteString(v.styles.Muted.Render("Still needed: " + strings.Join(missing, ", ")))
		} else {
			b.WriteString(v.styles.Success.Render("Ready to submit"))
		}
		b.WriteString("\n")
	}

	if v.Loading() {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Loading..."))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.errText())))
		b.WriteString("\n")
	}

	if v.session != nil && v.session.LastResult() != nil {
		b.WriteString("\n")
		heading := "Last result"
		if v.section == SectionResults {
			heading += " (↑/↓ to scroll)"
		}
		b.WriteString(v.styles.Subtitle.Render(heading))
		b.WriteString("\n")
		b.WriteString(v.results.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(
		"[tab] section  [enter/space] choose  [←/→] draft  [n] new draft  [d] remove draft  [s] submit  [esc] back"))
	return b.String()
}

func (v *View) renderTabs() string {
	if v.session == nil {
		return ""
	}
	drafts := v.session.Drafts()
	current := v.session.CurrentIndex()
	tabs := make([]string, 0, len(drafts))
	for i := range drafts {
		label := fmt.Sprintf(" %d ", i+1)
		if i == current {
			tabs = append(tabs, v.styles.Selected.Render(label))
		} else {
			tabs = append(tabs, v.styles.Muted.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (v *View) errText() string {
	if errors.Is(v.err, domain.ErrBackendUnavailable) {
		return "the review service is unavailable, try again later"
	}
	return v.err.Error()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	rows := max(height/3, 3)
	colWidth := max(width/3-2, 20)
	v.companyList.SetSize(colWidth, rows)
	v.fileList.SetSize(colWidth, rows)
	v.groupList.SetSize(colWidth, rows)
	v.poField.SetWidth(width)
	v.results.Width = width
	v.results.Height = max(height-rows-16, 5)
}

// Section returns the focused section.
func (v *View) Section() Section {
	return v.section
}

// Loading reports whether options or documents are being fetched.
func (v *View) Loading() bool {
	return v.loadingOptions || v.pendingDocs != ""
}

// Submitting reports whether the blocking overlay is shown.
func (v *View) Submitting() bool {
	return v.submitting
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
