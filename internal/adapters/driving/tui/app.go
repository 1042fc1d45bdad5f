package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/navbar"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/criteria"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/onboarding"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/review"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// navbar is shared by every view for the whole session.
	navbar    *navbar.State
	statusBar *status.Bar

	menuView       *menu.View
	documentsView  *documents.View
	criteriaView   *criteria.View
	reviewView     *review.View
	chatView       *chat.View
	onboardingView *onboarding.View
	historyView    *history.View
	settingsView   *settings.View

	// reloads delivers config file changes, if watched.
	reloads <-chan struct{}

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	statusBar := status.NewBar(s, km)
	statusBar.SetTitle(messages.ViewMenu.Title())

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		keymap:         km,
		navbar:         navbar.NewState(),
		statusBar:      statusBar,
		menuView:       menu.NewView(s),
		documentsView:  documents.NewView(s, ports.Company, ports.Document),
		criteriaView:   criteria.NewView(s, ports.Criteria),
		reviewView:     review.NewView(s, ports.Review),
		chatView:       chat.NewView(s, ports.Chat),
		onboardingView: onboarding.NewView(s, ports.Chunks, ports.Company, ports.Document),
		historyView:    history.NewView(s, ports.History, ports.ExportDir),
		settingsView:   settings.NewView(s, ports.Settings),
		currentView:    messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithConfigReloads makes the app refresh settings whenever reloads fires.
func (a *App) WithConfigReloads(reloads <-chan struct{}) *App {
	a.reloads = reloads
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("reviewdesk"),
		a.waitForReload(),
	)
}

func (a *App) waitForReload() tea.Cmd {
	if a.reloads == nil {
		return nil
	}
	reloads := a.reloads
	return func() tea.Msg {
		if _, ok := <-reloads; !ok {
			return nil
		}
		return messages.ConfigReloaded{}
	}
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.Quit:
		return a, tea.Quit

	case spinner.TickMsg:
		// Spinners drop ticks carrying another spinner's ID.
		var cmds []tea.Cmd
		a.statusBar, cmd = a.statusBar.Update(msg)
		cmds = append(cmds, cmd)
		a.documentsView, cmd = a.documentsView.Update(msg)
		cmds = append(cmds, cmd)
		a.criteriaView, cmd = a.criteriaView.Update(msg)
		cmds = append(cmds, cmd)
		a.reviewView, cmd = a.reviewView.Update(msg)
		cmds = append(cmds, cmd)
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
		a.onboardingView, cmd = a.onboardingView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case messages.CompaniesLoaded, messages.DocumentsLoaded:
		// Shared by the documents and onboarding views; each ignores data for
		// a company it is not showing.
		var other tea.Cmd
		a.documentsView, cmd = a.documentsView.Update(msg)
		a.onboardingView, other = a.onboardingView.Update(msg)
		return a, tea.Batch(cmd, other)

	case messages.CompanyCreated, messages.CompanyDeleted,
		messages.DocumentUploaded, messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.CriteriaLoaded, messages.CriteriaChanged, messages.DescriptionGenerated:
		a.criteriaView, cmd = a.criteriaView.Update(msg)
		return a, cmd

	case messages.ReviewOptionsLoaded, messages.ReviewDocumentsLoaded:
		a.reviewView, cmd = a.reviewView.Update(msg)
		return a, cmd

	case messages.ReviewCompleted:
		var other tea.Cmd
		a.reviewView, cmd = a.reviewView.Update(msg)
		a.historyView, other = a.historyView.Update(msg)
		if msg.Err == nil && a.ports.History != nil {
			a.statusBar.SetSuccess("Review saved to My Reviews")
		}
		return a, tea.Batch(cmd, other)

	case messages.ChatCompaniesLoaded, messages.ChatDocumentsLoaded, messages.ChatReplied:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ChunksLoaded, messages.ChunkSaved, messages.ChunkMoved:
		a.onboardingView, cmd = a.onboardingView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.HistoryExported, messages.HistoryDeleted:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		a.statusBar.SetSuccess("Configuration reloaded")
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, tea.Batch(cmd, a.waitForReload())

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err)
	}

	return a, a.updateCurrent(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch {
	case key == "ctrl+c":
		return a, tea.Quit

	case keymap.Matches(key, a.keymap.ToggleNavbar):
		a.navbar.Toggle()
		a.resize()
		return a, nil
	}

	if view, ok := navbar.ViewForKey(key); ok {
		return a, a.switchTo(view)
	}

	if a.currentView == messages.ViewHelp {
		if keymap.Matches(key, a.keymap.Back) {
			return a, a.switchTo(messages.ViewMenu)
		}
		return a, nil
	}

	return a, a.updateCurrent(msg)
}

// switchTo makes view current and runs its Init.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil
	a.statusBar.Clear()
	a.statusBar.SetTitle(view.Title())

	switch view {
	case messages.ViewDocuments:
		return a.documentsView.Init()
	case messages.ViewCriteria:
		return a.criteriaView.Init()
	case messages.ViewReview:
		return a.reviewView.Init()
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewOnboarding:
		return a.onboardingView.Init()
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewCriteria:
		a.criteriaView, cmd = a.criteriaView.Update(msg)
	case messages.ViewReview:
		a.reviewView, cmd = a.reviewView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewOnboarding:
		a.onboardingView, cmd = a.onboardingView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// resize hands every view the space right of the navbar and above the status bar.
func (a *App) resize() {
	if !a.ready {
		return
	}
	width := max(a.width-a.navbar.Width()-1, 20)
	height := max(a.height-1, 5)

	a.statusBar.SetWidth(a.width)
	a.menuView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.criteriaView.SetDimensions(width, height)
	a.reviewView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.onboardingView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var content string
	switch a.currentView {
	case messages.ViewDocuments:
		content = a.documentsView.View()
	case messages.ViewCriteria:
		content = a.criteriaView.View()
	case messages.ViewReview:
		content = a.reviewView.View()
	case messages.ViewChat:
		content = a.chatView.View()
	case messages.ViewOnboarding:
		content = a.onboardingView.View()
	case messages.ViewHistory:
		content = a.historyView.View()
	case messages.ViewSettings:
		content = a.settingsView.View()
	case messages.ViewHelp:
		content = a.viewHelp()
	default:
		content = a.menuView.View()
	}

	body := navbar.Layout(a.navbar.Render(a.styles, a.currentView, a.height-1), content)
	body = lipgloss.NewStyle().Height(max(a.height-1, 0)).MaxHeight(max(a.height-1, 0)).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar.View())
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Global"))
	b.WriteString("\n")
	writeHelpLine(&b, a.styles, "ctrl+b", "collapse or expand the navbar")
	writeHelpLine(&b, a.styles, "alt+1-8", "jump to a navbar entry")
	writeHelpLine(&b, a.styles, "ctrl+c", "quit")
	b.WriteString("\n")

	b.WriteString(a.styles.Subtitle.Render("In views"))
	b.WriteString("\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			writeHelpLine(&b, a.styles, h.Key, h.Desc)
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

func writeHelpLine(b *strings.Builder, s *styles.Styles, key, desc string) {
	b.WriteString(s.Normal.Render(fmt.Sprintf("  %-10s %s", key, desc)))
	b.WriteString("\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// NavbarExpanded reports whether the navbar shows labels.
func (a *App) NavbarExpanded() bool {
	return a.navbar.Expanded()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.resize()
}
