// Package chat provides the document chat view for the TUI.
package chat

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

// Focus identifies which control receives keys.
type Focus int

const (
	FocusCompanies Focus = iota
	FocusDocuments
	FocusInput
)

const sidebarWidth = 32

// View is a chat pane scoped to the documents selected on the left.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.ChatSession

	companyList  *list.Picker
	documentList *list.Picker
	prompt       *input.Field
	transcript   viewport.Model
	spinner      spinner.Model

	focus   Focus
	loading bool
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, session driving.ChatSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	companyList := list.NewPicker(s, km, "Company")
	companyList.SetEmptyText("No companies.")
	documentList := list.NewPicker(s, km, "Documents").WithCheckboxes()
	documentList.SetEmptyText("Choose a company.")

	sp := spinner.New()
	sp.Spinner = spinner.Ellipsis
	sp.Style = s.Muted

	v := &View{
		styles:       s,
		keymap:       km,
		session:      session,
		companyList:  companyList,
		documentList: documentList,
		prompt:       input.NewField(s, "", "Ask about the selected documents..."),
		transcript:   viewport.New(60, 10),
		spinner:      sp,
	}
	v.setFocus(FocusCompanies)
	v.syncTranscript()
	return v
}

// Init loads the companies.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadCompanies()
}

func (v *View) loadCompanies() tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ChatCompaniesLoaded{Err: fmt.Errorf("chat service not available")}
		}
		companies, err := v.session.Companies(context.Background())
		return messages.ChatCompaniesLoaded{Companies: companies, Err: err}
	}
}

func (v *View) selectCompany(companyID string) tea.Cmd {
	return func() tea.Msg {
		if v.session == nil {
			return messages.ChatDocumentsLoaded{CompanyID: companyID, Err: fmt.Errorf("chat service not available")}
		}
		docs, err := v.session.SelectCompany(context.Background(), companyID)
		return messages.ChatDocumentsLoaded{CompanyID: companyID, Documents: docs, Err: err}
	}
}

func (v *View) complete(req *driving.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		return messages.ChatReplied{Message: v.session.Complete(context.Background(), req)}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.waiting() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.syncTranscript()
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.ChatCompaniesLoaded:
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

	case messages.ChatDocumentsLoaded:
		if v.session == nil || msg.CompanyID != v.session.CompanyID() {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		items := make([]list.Item, 0, len(msg.Documents))
		for _, d := range msg.Documents {
			items = append(items, list.Item{ID: d.ID, Label: d.Name})
		}
		v.documentList.SetItems(items)
		v.documentList.SetCursor(0)
		v.documentList.SetChecked(v.session.SelectedDocuments())
		v.companyList.SetChecked([]string{msg.CompanyID})
		return v, nil

	case messages.ChatReplied:
		v.syncTranscript()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch key {
	case "tab":
		return v, v.setFocus((v.focus + 1) % 3)
	case "shift+tab":
		return v, v.setFocus((v.focus + 2) % 3)
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case "pgup", "pgdown":
		var cmd tea.Cmd
		v.transcript, cmd = v.transcript.Update(msg)
		return v, cmd
	}

	switch v.focus {
	case FocusInput:
		if key == "enter" {
			return v, v.send()
		}
		var cmd tea.Cmd
		v.prompt, cmd = v.prompt.Update(msg)
		return v, cmd

	case FocusCompanies:
		if keymap.Matches(key, v.keymap.Select) {
			item, ok := v.companyList.Selected()
			if !ok {
				return v, nil
			}
			v.documentList.SetItems(nil)
			v.loading = true
			// SelectCompany records the company before the fetch returns,
			// so stale document lists can be told apart.
			return v, v.selectCompany(item.ID)
		}
		var cmd tea.Cmd
		v.companyList, cmd = v.companyList.Update(msg)
		return v, cmd

	case FocusDocuments:
		if keymap.Matches(key, v.keymap.Toggle) || keymap.Matches(key, v.keymap.Select) {
			item, ok := v.documentList.Selected()
			if ok && v.session != nil {
				v.session.ToggleDocument(item.ID)
				v.documentList.SetChecked(v.session.SelectedDocuments())
				v.err = nil
			}
			return v, nil
		}
		var cmd tea.Cmd
		v.documentList, cmd = v.documentList.Update(msg)
		return v, cmd
	}
	return v, nil
}

// send validates the prompt and starts the request. Rejected input leaves
// the prompt and the history untouched.
func (v *View) send() tea.Cmd {
	if v.session == nil || v.session.Waiting() {
		return nil
	}
	req, err := v.session.Begin(v.prompt.Value())
	if err != nil {
		if errors.Is(err, domain.ErrNoDocumentsSelected) {
			v.err = fmt.Errorf("select at least one document to chat with")
		} else if !errors.Is(err, domain.ErrInvalidInput) {
			v.err = err
		}
		return nil
	}
	v.err = nil
	v.prompt.Reset()
	v.syncTranscript()
	return tea.Batch(v.complete(req), v.spinner.Tick)
}

func (v *View) waiting() bool {
	return v.session != nil && v.session.Waiting()
}

// syncTranscript re-renders the conversation and scrolls to the newest
// line, typing indicator included.
func (v *View) syncTranscript() {
	width := max(v.transcript.Width-2, 20)
	var b strings.Builder

	var history []domain.ChatMessage
	if v.session != nil {
		history = v.session.Messages()
	}
	if len(history) == 0 {
		b.WriteString(v.styles.Muted.Render("Select documents on the left, then ask a question."))
	}
	for i, m := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.Role == domain.ChatRoleUser {
			b.WriteString(v.styles.UserMessage.Width(width).Render("You: " + m.Content))
		} else {
			b.WriteString(v.styles.AIMessage.Width(width).Render("AI: " + m.Content))
		}
	}
	if v.waiting() {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render("AI is typing" + v.spinner.View()))
	}

	v.transcript.SetContent(b.String())
	v.transcript.GotoBottom()
}

func (v *View) setFocus(f Focus) tea.Cmd {
	v.focus = f
	v.companyList.Blur()
	v.documentList.Blur()
	v.prompt.Blur()
	switch f {
	case FocusCompanies:
		v.companyList.Focus()
	case FocusDocuments:
		v.documentList.Focus()
	case FocusInput:
		return v.prompt.Focus()
	}
	return nil
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Chat"))
	b.WriteString("\n\n")

	var side strings.Builder
	side.WriteString(v.companyList.View())
	side.WriteString("\n\n")
	side.WriteString(v.documentList.View())
	if v.loading {
		side.WriteString("\n")
		side.WriteString(v.styles.Muted.Render("Loading..."))
	}
	left := lipgloss.NewStyle().Width(sidebarWidth).Render(side.String())

	right := lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Border.Render(v.transcript.View()),
		v.prompt.View(),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[tab] switch  [enter] select/send  [space] toggle document  [pgup/pgdn] scroll  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	rows := max((height-10)/2, 3)
	v.companyList.SetSize(sidebarWidth, rows)
	v.documentList.SetSize(sidebarWidth, rows)

	v.transcript.Width = max(width-sidebarWidth-6, 30)
	v.transcript.Height = max(height-12, 5)
	v.prompt.SetWidth(v.transcript.Width)
	v.syncTranscript()
}

// Focus returns the focused control.
func (v *View) Focus() Focus {
	return v.focus
}

// Transcript returns the rendered conversation pane.
func (v *View) Transcript() string {
	return v.transcript.View()
}

// AtBottom reports whether the conversation shows the newest line.
func (v *View) AtBottom() bool {
	return v.transcript.AtBottom()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
