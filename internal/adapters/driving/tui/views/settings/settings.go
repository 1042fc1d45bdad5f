// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionBaseURL
	SectionToken
	SectionEndpoint
)

// Overview rows.
const (
	rowBaseURL = iota
	rowToken
	rowEndpoint
	rowAutosave
	rowCount
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	status   string

	section  Section
	selected int

	baseURLInput *input.Field
	tokenInput   *input.Field

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		baseURLInput:    input.NewField(s, "Backend URL", domain.DefaultBaseURL),
		tokenInput:      input.NewSecretField(s, "Token", "Leave empty to send no token"),
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			v.status = ""
			return v, nil
		}
		v.err = nil
		v.status = "Settings saved"
		v.closeSection()
		return v, v.loadSettings()

	case messages.ConfigReloaded:
		if v.section == SectionOverview {
			return v, v.loadSettings()
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == keyEsc {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.closeSection()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionBaseURL:
		return v.handleFieldKeys(msg, v.baseURLInput, v.setBaseURL)
	case SectionToken:
		return v.handleFieldKeys(msg, v.tokenInput, v.setToken)
	case SectionEndpoint:
		return v.handleEndpointKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < rowCount-1 {
			v.selected++
		}
	case keyEnter, " ":
		if v.settings == nil {
			return v, nil
		}
		v.status = ""
		switch v.selected {
		case rowBaseURL:
			v.section = SectionBaseURL
			v.baseURLInput.SetValue(v.settings.Backend.BaseURL)
			return v, v.baseURLInput.Focus()
		case rowToken:
			v.section = SectionToken
			v.tokenInput.SetValue(v.settings.Backend.Token)
			return v, v.tokenInput.Focus()
		case rowEndpoint:
			v.section = SectionEndpoint
			v.selected = v.endpointIndex()
		case rowAutosave:
			return v, v.setAutosave(!v.settings.Onboarding.Autosave)
		}
	}
	return v, nil
}

func (v *View) handleFieldKeys(msg tea.KeyMsg, field *input.Field, save func(string) tea.Cmd) (*View, tea.Cmd) {
	if msg.String() == keyEnter {
		return v, save(field.Value())
	}
	_, cmd := field.Update(msg)
	return v, cmd
}

func (v *View) handleEndpointKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	endpoints := domain.AllReviewEndpoints()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(endpoints)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(endpoints) {
			return v, v.setEndpoint(endpoints[v.selected])
		}
	}
	return v, nil
}

// closeSection returns to the overview with the row of the closed section selected.
func (v *View) closeSection() {
	switch v.section {
	case SectionBaseURL:
		v.selected = rowBaseURL
	case SectionToken:
		v.selected = rowToken
	case SectionEndpoint:
		v.selected = rowEndpoint
	}
	v.section = SectionOverview
	v.baseURLInput.Blur()
	v.tokenInput.Reset()
	v.tokenInput.Blur()
}

// Commands to update settings.

func (v *View) saveWith(fn func(driving.SettingsService) error) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Err: fmt.Errorf("settings service not available")}
		}
		return messages.SettingsSaved{Err: fn(v.settingsService)}
	}
}

func (v *View) setBaseURL(url string) tea.Cmd {
	return v.saveWith(func(s driving.SettingsService) error { return s.SetBaseURL(url) })
}

func (v *View) setToken(token string) tea.Cmd {
	return v.saveWith(func(s driving.SettingsService) error { return s.SetToken(token) })
}

func (v *View) setEndpoint(endpoint domain.ReviewEndpoint) tea.Cmd {
	return v.saveWith(func(s driving.SettingsService) error { return s.SetReviewEndpoint(endpoint) })
}

func (v *View) setAutosave(enabled bool) tea.Cmd {
	return v.saveWith(func(s driving.SettingsService) error { return s.SetAutosave(enabled) })
}

func (v *View) endpointIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, e := range domain.AllReviewEndpoints() {
		if e == v.settings.Review.Endpoint {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionBaseURL:
		b.WriteString(v.baseURLInput.View())
		b.WriteString("\n")
	case SectionToken:
		b.WriteString(v.tokenInput.View())
		b.WriteString("\n")
	case SectionEndpoint:
		b.WriteString(v.renderEndpointSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	token := "Not Set"
	if v.settings.Backend.Token != "" {
		token = "********"
	}
	autosave := "off"
	if v.settings.Onboarding.Autosave {
		autosave = "on"
	}

	items := []struct {
		label string
		value string
	}{
		{label: "Backend URL", value: v.settings.Backend.BaseURL},
		{label: "Token", value: token},
		{label: "Review Endpoint", value: v.settings.Review.Endpoint.Description()},
		{label: "Autosave Headers", value: autosave},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
		if path := v.settingsService.ConfigPath(); path != "" {
			b.WriteString(v.styles.Muted.Render("Config file: " + path))
			b.WriteString("\n")
		}
	}
	if v.status != "" && v.err == nil {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderEndpointSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Review Endpoint"))
	b.WriteString("\n\n")

	for i, endpoint := range domain.AllReviewEndpoints() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		current := ""
		if endpoint == v.settings.Review.Endpoint {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s%s", indicator, endpoint.Description(), current)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionEndpoint:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	case SectionBaseURL, SectionToken:
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.baseURLInput.SetWidth(width)
	v.tokenInput.SetWidth(width)
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.err = nil
	v.status = ""
	v.baseURLInput.Reset()
	v.baseURLInput.Blur()
	v.tokenInput.Reset()
	v.tokenInput.Blur()
}
