// Package criteria provides the review criteria manager view for the TUI.
package criteria

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
	// ModeCreating creates a group and optionally its first clause.
	ModeCreating
	ModeNewClause
	ModeEditClause
	ModeAttach
	ModeConfirmDeleteGroup
	ModeConfirmDeleteClause
)

type pane int

const (
	paneGroups pane = iota
	paneClauses
)

// form field indexes.
const (
	fieldGroup = iota
	fieldName
	fieldDescription
)

// View lists criteria groups on the left and the selected group's clauses
// on the right.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	criteria driving.CriteriaService

	groupList  *list.Picker
	clauseList *list.Picker
	attachList *list.Picker
	groupField *input.Field
	nameField  *input.Field
	descField  *input.Field
	spinner    spinner.Model

	focus      pane
	mode       Mode
	formFocus  int
	editingID  string
	loading    bool
	saving     bool
	generating bool
	err        error
	status     string
	width      int
	height     int
	ready      bool
}

// NewView creates a new criteria view.
func NewView(s *styles.Styles, criteria driving.CriteriaService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	groupList := list.NewPicker(s, km, "Criteria groups")
	groupList.SetEmptyText("No groups. Press n to create one.")
	clauseList := list.NewPicker(s, km, "Clauses")
	clauseList.SetEmptyText("No clauses in this group.")
	clauseList.Blur()
	attachList := list.NewPicker(s, km, "Attach an existing clause")
	attachList.SetEmptyText("Every clause is already in this group.")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:     s,
		keymap:     km,
		criteria:   criteria,
		groupList:  groupList,
		clauseList: clauseList,
		attachList: attachList,
		groupField: input.NewField(s, "Group", "Supply agreements"),
		nameField:  input.NewField(s, "Clause", "Limitation of liability"),
		descField:  input.NewField(s, "Description", "ctrl+g to generate"),
		spinner:    sp,
	}
}

// Init loads the catalog unless it is already loaded.
func (v *View) Init() tea.Cmd {
	if v.criteria != nil && v.criteria.Loaded() {
		v.refresh()
		return nil
	}
	v.loading = true
	return tea.Batch(v.load(), v.spinner.Tick)
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.criteria == nil {
			return messages.CriteriaLoaded{Err: fmt.Errorf("criteria service not available")}
		}
		return messages.CriteriaLoaded{Err: v.criteria.Load(context.Background())}
	}
}

// mutate runs fn as a command and reports status on success.
func (v *View) mutate(status string, fn func(ctx context.Context) error) tea.Cmd {
	v.saving = true
	v.status = ""
	run := func() tea.Msg {
		if v.criteria == nil {
			return messages.CriteriaChanged{Err: fmt.Errorf("criteria service not available")}
		}
		if err := fn(context.Background()); err != nil {
			return messages.CriteriaChanged{Err: err}
		}
		return messages.CriteriaChanged{Status: status}
	}
	return tea.Batch(run, v.spinner.Tick)
}

func (v *View) generate(name string) tea.Cmd {
	v.generating = true
	run := func() tea.Msg {
		if v.criteria == nil {
			return messages.DescriptionGenerated{Name: name, Err: fmt.Errorf("criteria service not available")}
		}
		desc, err := v.criteria.GenerateDescription(context.Background(), name)
		return messages.DescriptionGenerated{Name: name, Description: desc, Err: err}
	}
	return tea.Batch(run, v.spinner.Tick)
}

// Update handles messages for the criteria view.
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
		return v.handleKey(msg)

	case messages.CriteriaLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.refresh()
		return v, nil

	case messages.CriteriaChanged:
		v.saving = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = msg.Status
		v.refresh()
		return v, nil

	case messages.DescriptionGenerated:
		v.generating = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if v.formOpen() && strings.TrimSpace(v.nameField.Value()) == msg.Name {
			v.descField.SetValue(msg.Description)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeCreating, ModeNewClause, ModeEditClause:
		return v.handleFormKey(msg)
	case ModeAttach:
		return v.handleAttachKey(msg)
	case ModeConfirmDeleteGroup, ModeConfirmDeleteClause:
		return v.handleConfirmKey(msg)
	case ModeBrowse:
	}
	return v.handleBrowseKey(msg)
}

//nolint:gocyclo // one case per binding
func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case key == "tab":
		v.switchPane()
		return v, nil

	case keymap.Matches(key, v.keymap.Select):
		if v.focus == paneGroups {
			v.openSelectedGroup()
		}
		return v, nil

	case keymap.Matches(key, v.keymap.New):
		if v.focus == paneGroups {
			return v, v.openForm(ModeCreating, "")
		}
		if v.selectedGroupID() == "" {
			v.err = fmt.Errorf("open a group before adding clauses")
			return v, nil
		}
		return v, v.openForm(ModeNewClause, "")

	case key == "e":
		if v.focus != paneClauses {
			return v, nil
		}
		item, ok := v.clauseList.Selected()
		if !ok {
			return v, nil
		}
		return v, v.openForm(ModeEditClause, item.ID)

	case key == "a":
		groupID := v.selectedGroupID()
		if groupID == "" || v.criteria == nil {
			return v, nil
		}
		v.attachList.SetItems(clauseItems(v.criteria.AvailableClauses(groupID)))
		v.attachList.SetCursor(0)
		v.mode = ModeAttach
		return v, nil

	case key == "x":
		groupID := v.selectedGroupID()
		item, ok := v.clauseList.Selected()
		if v.focus != paneClauses || groupID == "" || !ok {
			return v, nil
		}
		return v, v.mutate(fmt.Sprintf("Removed %s from the group", item.Label), func(ctx context.Context) error {
			return v.criteria.DetachClause(ctx, groupID, item.ID)
		})

	case keymap.Matches(key, v.keymap.Delete):
		if v.focus == paneGroups {
			if _, ok := v.groupList.Selected(); ok {
				v.mode = ModeConfirmDeleteGroup
			}
			return v, nil
		}
		if _, ok := v.clauseList.Selected(); ok {
			v.mode = ModeConfirmDeleteClause
		}
		return v, nil

	case keymap.Matches(key, v.keymap.Reload):
		if v.criteria != nil {
			v.criteria.Invalidate()
		}
		v.loading = true
		return v, tea.Batch(v.load(), v.spinner.Tick)

	case keymap.Matches(key, v.keymap.Back):
		if v.focus == paneClauses {
			v.switchPane()
			return v, nil
		}
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}

	var cmd tea.Cmd
	if v.focus == paneGroups {
		v.groupList, cmd = v.groupList.Update(msg)
	} else {
		v.clauseList, cmd = v.clauseList.Update(msg)
	}
	return v, cmd
}

func (v *View) handleFormKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.closeForm()
		return v, nil
	case "tab", "down":
		return v, v.focusField(v.nextField(1))
	case "shift+tab", "up":
		return v, v.focusField(v.nextField(-1))
	case "ctrl+g":
		name := strings.TrimSpace(v.nameField.Value())
		if v.generating || name == "" {
			return v, nil
		}
		return v, v.generate(name)
	case "enter":
		if v.generating || v.saving {
			return v, nil
		}
		return v, v.submitForm()
	}

	var cmd tea.Cmd
	switch v.formFocus {
	case fieldGroup:
		v.groupField, cmd = v.groupField.Update(msg)
	case fieldName:
		v.nameField, cmd = v.nameField.Update(msg)
	case fieldDescription:
		if v.generating {
			return v, nil
		}
		v.descField, cmd = v.descField.Update(msg)
	}
	return v, cmd
}

func (v *View) handleAttachKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ModeBrowse
		return v, nil
	case "enter":
		v.mode = ModeBrowse
		item, ok := v.attachList.Selected()
		groupID := v.selectedGroupID()
		if !ok || groupID == "" {
			return v, nil
		}
		return v, v.mutate(fmt.Sprintf("Added %s", item.Label), func(ctx context.Context) error {
			return v.criteria.AttachClause(ctx, groupID, item.ID)
		})
	}
	var cmd tea.Cmd
	v.attachList, cmd = v.attachList.Update(msg)
	return v, cmd
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	mode := v.mode
	v.mode = ModeBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		return v, nil
	}

	if mode == ModeConfirmDeleteGroup {
		item, ok := v.groupList.Selected()
		if !ok {
			return v, nil
		}
		return v, v.mutate(fmt.Sprintf("Deleted group %s", item.Label), func(ctx context.Context) error {
			return v.criteria.DeleteGroup(ctx, item.ID)
		})
	}

	item, ok := v.clauseList.Selected()
	if !ok {
		return v, nil
	}
	return v, v.mutate(fmt.Sprintf("Deleted clause %s", item.Label), func(ctx context.Context) error {
		return v.criteria.DeleteClause(ctx, item.ID)
	})
}

func (v *View) openForm(mode Mode, clauseID string) tea.Cmd {
	v.mode = mode
	v.editingID = clauseID
	v.groupField.Reset()
	v.nameField.Reset()
	v.descField.Reset()
	v.err = nil

	if mode == ModeEditClause && v.criteria != nil {
		for _, c := range v.criteria.Clauses() {
			if c.ID == clauseID {
				v.nameField.SetValue(c.Name)
				v.descField.SetValue(c.Description)
			}
		}
	}

	if mode == ModeCreating {
		return v.focusField(fieldGroup)
	}
	return v.focusField(fieldName)
}

func (v *View) closeForm() {
	v.mode = ModeBrowse
	v.editingID = ""
	v.groupField.Blur()
	v.nameField.Blur()
	v.descField.Blur()
}

func (v *View) nextField(step int) int {
	first := fieldName
	if v.mode == ModeCreating {
		first = fieldGroup
	}
	n := fieldDescription - first + 1
	return first + ((v.formFocus-first+step)%n+n)%n
}

func (v *View) focusField(field int) tea.Cmd {
	v.formFocus = field
	v.groupField.Blur()
	v.nameField.Blur()
	v.descField.Blur()
	switch field {
	case fieldGroup:
		return v.groupField.Focus()
	case fieldName:
		return v.nameField.Focus()
	default:
		return v.descField.Focus()
	}
}

func (v *View) submitForm() tea.Cmd {
	mode := v.mode
	groupName := strings.TrimSpace(v.groupField.Value())
	name := strings.TrimSpace(v.nameField.Value())
	desc := strings.TrimSpace(v.descField.Value())
	groupID := v.selectedGroupID()
	clauseID := v.editingID
	v.closeForm()

	switch mode {
	case ModeCreating:
		if groupName == "" {
			return nil
		}
		return v.mutate(fmt.Sprintf("Created group %s", groupName), func(ctx context.Context) error {
			group, err := v.criteria.CreateGroup(ctx, groupName)
			if err != nil || group == nil {
				return err
			}
			if err := v.criteria.Select(group.ID); err != nil {
				return err
			}
			if name == "" {
				return nil
			}
			_, err = v.criteria.CreateClause(ctx, group.ID, name, desc)
			return err
		})
	case ModeNewClause:
		return v.mutate(fmt.Sprintf("Created clause %s", name), func(ctx context.Context) error {
			_, err := v.criteria.CreateClause(ctx, groupID, name, desc)
			return err
		})
	case ModeEditClause:
		return v.mutate(fmt.Sprintf("Saved clause %s", name), func(ctx context.Context) error {
			return v.criteria.EditClause(ctx, clauseID, name, desc)
		})
	case ModeBrowse, ModeAttach, ModeConfirmDeleteGroup, ModeConfirmDeleteClause:
	}
	return nil
}

func (v *View) openSelectedGroup() {
	item, ok := v.groupList.Selected()
	if !ok || v.criteria == nil {
		return
	}
	if err := v.criteria.Select(item.ID); err != nil {
		v.err = err
		return
	}
	v.refresh()
	v.focus = paneGroups
	v.switchPane()
}

func (v *View) switchPane() {
	if v.focus == paneGroups && v.selectedGroupID() != "" {
		v.focus = paneClauses
		v.groupList.Blur()
		v.clauseList.Focus()
		return
	}
	v.focus = paneGroups
	v.clauseList.Blur()
	v.groupList.Focus()
}

// refresh rebuilds both lists from the catalog.
func (v *View) refresh() {
	if v.criteria == nil {
		return
	}
	groups := v.criteria.Groups()
	items := make([]list.Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, list.Item{ID: g.ID, Label: g.Name, Hint: fmt.Sprintf("(%d)", len(g.Clauses))})
	}
	v.groupList.SetItems(items)

	selected := v.criteria.Selected()
	if selected == nil {
		v.groupList.SetChecked(nil)
		v.clauseList.SetItems(nil)
		if v.focus == paneClauses {
			v.switchPane()
		}
		return
	}
	v.groupList.SetChecked([]string{selected.ID})
	v.groupList.SelectID(selected.ID)
	v.clauseList.SetItems(clauseItems(selected.Clauses))
}

func clauseItems(clauses []domain.Clause) []list.Item {
	items := make([]list.Item, 0, len(clauses))
	for _, c := range clauses {
		items = append(items, list.Item{ID: c.ID, Label: c.Name})
	}
	return items
}

func (v *View) selectedGroupID() string {
	if v.criteria == nil {
		return ""
	}
	if g := v.criteria.Selected(); g != nil {
		return g.ID
	}
	return ""
}

func (v *View) formOpen() bool {
	return v.mode == ModeCreating || v.mode == ModeNewClause || v.mode == ModeEditClause
}

func (v *View) busy() bool {
	return v.loading || v.saving || v.generating
}

// View renders the criteria view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Review Criteria"))
	b.WriteString("\n\n")

	switch v.mode {
	case ModeCreating, ModeNewClause, ModeEditClause:
		b.WriteString(v.renderForm())
	case ModeAttach:
		b.WriteString(v.attachList.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] attach  [esc] cancel"))
		b.WriteString("\n")
	case ModeBrowse, ModeConfirmDeleteGroup, ModeConfirmDeleteClause:
		b.WriteString(v.renderPanes())
	}

	if v.loading {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Loading criteria..."))
		b.WriteString("\n")
	} else if v.saving {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Saving..."))
		b.WriteString("\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	} else if v.status != "" {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderPanes() string {
	var b strings.Builder
	paneWidth := max(v.width/2-2, 20)
	left := lipgloss.NewStyle().Width(paneWidth).Render(v.groupList.View())
	right := lipgloss.NewStyle().Width(paneWidth).Render(v.clauseList.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	if v.focus == paneClauses && v.criteria != nil {
		if item, ok := v.clauseList.Selected(); ok {
			for _, c := range v.criteria.Clauses() {
				if c.ID == item.ID && c.Description != "" {
					b.WriteString(v.styles.Muted.Render(c.Description))
					b.WriteString("\n\n")
				}
			}
		}
	}

	switch v.mode {
	case ModeConfirmDeleteGroup:
		item, _ := v.groupList.Selected()
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete group %q? [y/N]", item.Label)))
		b.WriteString("\n")
	case ModeConfirmDeleteClause:
		item, _ := v.clauseList.Selected()
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete clause %q from every group? [y/N]", item.Label)))
		b.WriteString("\n")
	case ModeBrowse, ModeCreating, ModeNewClause, ModeEditClause, ModeAttach:
		b.WriteString(v.styles.Help.Render(v.browseHelp()))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) browseHelp() string {
	if v.focus == paneClauses {
		return "[n] new clause  [a] attach  [x] remove from group  [e] edit  [d] delete  [esc] groups"
	}
	return "[↑/↓] navigate  [enter] open  [n] new group  [a] attach  [d] delete  [r] reload  [esc] back"
}

func (v *View) renderForm() string {
	var b strings.Builder
	switch v.mode {
	case ModeCreating:
		b.WriteString(v.styles.Subtitle.Render("New criteria group"))
	case ModeEditClause:
		b.WriteString(v.styles.Subtitle.Render("Edit clause"))
	default:
		b.WriteString(v.styles.Subtitle.Render("New clause"))
	}
	b.WriteString("\n\n")

	if v.mode == ModeCreating {
		b.WriteString(v.groupField.View())
		b.WriteString("\n")
	}
	b.WriteString(v.nameField.View())
	b.WriteString("\n")
	b.WriteString(v.descField.View())
	b.WriteString("\n")
	if v.generating {
		b.WriteString(v.spinner.View() + v.styles.Muted.Render(" Generating description..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[tab] next field  [ctrl+g] generate description  [enter] save  [esc] cancel"))
	b.WriteString("\n")
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	rows := max(height-12, 3)
	v.groupList.SetSize(max(width/2-2, 20), rows)
	v.clauseList.SetSize(max(width/2-2, 20), rows)
	v.attachList.SetSize(width, rows)
	v.groupField.SetWidth(width)
	v.nameField.SetWidth(width)
	v.descField.SetWidth(width)
}

// Mode returns the current input mode.
func (v *View) Mode() Mode {
	return v.mode
}

// Generating reports whether a description request is pending.
func (v *View) Generating() bool {
	return v.generating
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
