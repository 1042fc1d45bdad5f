package settings

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	args := m.Called(settings)
	return args.Error(0)
}

func (m *MockSettingsService) SetBaseURL(baseURL string) error {
	args := m.Called(baseURL)
	return args.Error(0)
}

func (m *MockSettingsService) SetToken(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockSettingsService) SetReviewEndpoint(endpoint domain.ReviewEndpoint) error {
	args := m.Called(endpoint)
	return args.Error(0)
}

func (m *MockSettingsService) SetAutosave(enabled bool) error {
	args := m.Called(enabled)
	return args.Error(0)
}

func (m *MockSettingsService) Validate() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	args := m.Called()
	return args.Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) ConfigPath() string {
	args := m.Called()
	return args.String(0)
}

// Helper function to create test settings.
func testSettings() *domain.AppSettings {
	settings := domain.DefaultAppSettings()
	settings.Backend.BaseURL = "https://review.example.com"
	return &settings
}

func newLoadedView(t *testing.T, mockService *MockSettingsService) *View {
	t.Helper()
	mockService.On("Validate").Return(nil).Maybe()
	mockService.On("ConfigPath").Return("/home/user/.reviewdesk/config.toml").Maybe()

	view := NewView(nil, mockService)
	view.Update(messages.SettingsLoaded{Settings: testSettings()})
	return view
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewView(t *testing.T) {
	s := styles.DefaultStyles()
	mockService := new(MockSettingsService)

	view := NewView(s, mockService)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Equal(t, mockService, view.settingsService)
	assert.Equal(t, SectionOverview, view.Section())
	assert.Equal(t, 0, view.selected)
	assert.NotNil(t, view.baseURLInput)
	assert.NotNil(t, view.tokenInput)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil, new(MockSettingsService))

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
}

func TestView_Init_LoadSettings_Success(t *testing.T) {
	mockService := new(MockSettingsService)
	settings := testSettings()
	mockService.On("Get").Return(settings, nil)

	view := NewView(nil, mockService)
	cmd := view.Init()

	require.NotNil(t, cmd)
	loaded, ok := cmd().(messages.SettingsLoaded)
	require.True(t, ok)
	assert.NoError(t, loaded.Err)
	assert.Equal(t, settings, loaded.Settings)
	mockService.AssertExpectations(t)
}

func TestView_Init_LoadSettings_Error(t *testing.T) {
	mockService := new(MockSettingsService)
	expectedErr := fmt.Errorf("failed to load settings")
	mockService.On("Get").Return((*domain.AppSettings)(nil), expectedErr)

	view := NewView(nil, mockService)
	loaded, ok := view.Init()().(messages.SettingsLoaded)

	require.True(t, ok)
	assert.Equal(t, expectedErr, loaded.Err)
	assert.Nil(t, loaded.Settings)
}

func TestView_Init_NoService(t *testing.T) {
	view := NewView(nil, nil)

	loaded, ok := view.Init()().(messages.SettingsLoaded)

	require.True(t, ok)
	require.Error(t, loaded.Err)
	assert.Contains(t, loaded.Err.Error(), "settings service not available")
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil, new(MockSettingsService))

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 120, Height: 60})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 120, view.width)
	assert.Equal(t, 60, view.height)
}

func TestView_View_Loading(t *testing.T) {
	view := NewView(nil, new(MockSettingsService))

	assert.Contains(t, view.View(), "Loading settings...")
}

func TestView_View_Overview(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))

	out := view.View()

	assert.Contains(t, out, "Backend URL: https://review.example.com")
	assert.Contains(t, out, "Token: Not Set")
	assert.Contains(t, out, "review1")
	assert.Contains(t, out, "Autosave Headers: on")
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "config.toml")
}

func TestView_View_TokenMasked(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))
	settings := testSettings()
	settings.Backend.Token = "s3cret"
	view.Update(messages.SettingsLoaded{Settings: settings})

	out := view.View()

	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "Token: ********")
}

func TestView_View_ValidationWarning(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("Validate").Return(fmt.Errorf("backend.base_url must be a valid URL"))
	view := newLoadedView(t, mockService)

	assert.Contains(t, view.View(), "Warning: backend.base_url must be a valid URL")
}

func TestView_OverviewNavigation(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))

	view.Update(keyMsg("up"))
	assert.Equal(t, 0, view.selected)

	for range rowCount + 2 {
		view.Update(keyMsg("j"))
	}
	assert.Equal(t, rowCount-1, view.selected)
}

func TestView_EditBaseURL(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("SetBaseURL", "https://review.example.com/v2").Return(nil)
	view := newLoadedView(t, mockService)

	view.Update(keyMsg("enter"))
	require.Equal(t, SectionBaseURL, view.Section())
	assert.Equal(t, "https://review.example.com", view.baseURLInput.Value())

	view.Update(keyMsg("/v2"))
	_, cmd := view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	require.NoError(t, saved.Err)
	mockService.AssertExpectations(t)
}

func TestView_SettingsSaved_ReturnsToOverview(t *testing.T) {
	mockService := new(MockSettingsService)
	view := newLoadedView(t, mockService)
	view.Update(keyMsg("down"))
	view.Update(keyMsg("enter"))
	require.Equal(t, SectionToken, view.Section())

	_, cmd := view.Update(messages.SettingsSaved{})

	assert.NotNil(t, cmd)
	assert.Equal(t, SectionOverview, view.Section())
	assert.Equal(t, rowToken, view.selected)
	assert.Empty(t, view.tokenInput.Value())
	assert.Contains(t, view.View(), "Settings saved")
}

func TestView_SettingsSaved_ErrorStaysInSection(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))
	view.Update(keyMsg("enter"))

	view.Update(messages.SettingsSaved{Err: fmt.Errorf("backend.base_url must be a valid URL")})

	assert.Equal(t, SectionBaseURL, view.Section())
	assert.Contains(t, view.View(), "Error: backend.base_url must be a valid URL")
}

func TestView_SetToken(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("SetToken", "abc").Return(nil)
	view := newLoadedView(t, mockService)

	view.Update(keyMsg("down"))
	view.Update(keyMsg("enter"))
	view.Update(keyMsg("abc"))
	assert.NotContains(t, view.View(), "abc")

	_, cmd := view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	cmd()
	mockService.AssertExpectations(t)
}

func TestView_SelectEndpoint(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("SetReviewEndpoint", domain.ReviewEndpointObject).Return(nil)
	view := newLoadedView(t, mockService)

	view.Update(keyMsg("down"))
	view.Update(keyMsg("down"))
	view.Update(keyMsg("enter"))
	require.Equal(t, SectionEndpoint, view.Section())
	assert.Equal(t, 0, view.selected, "current endpoint preselected")
	assert.Contains(t, view.View(), "(current)")

	view.Update(keyMsg("down"))
	_, cmd := view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	cmd()
	mockService.AssertExpectations(t)
}

func TestView_ToggleAutosave(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("SetAutosave", false).Return(nil)
	view := newLoadedView(t, mockService)

	for range rowAutosave {
		view.Update(keyMsg("down"))
	}
	_, cmd := view.Update(keyMsg("enter"))

	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	assert.NoError(t, saved.Err)
	mockService.AssertExpectations(t)
}

func TestView_SaveWithoutService(t *testing.T) {
	view := NewView(nil, nil)
	view.Update(messages.SettingsLoaded{Settings: testSettings()})

	view.Update(keyMsg("enter"))
	_, cmd := view.Update(keyMsg("enter"))

	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	assert.Error(t, saved.Err)
}

func TestView_EnterBeforeLoadIgnored(t *testing.T) {
	view := NewView(nil, new(MockSettingsService))

	_, cmd := view.Update(keyMsg("enter"))

	assert.Nil(t, cmd)
	assert.Equal(t, SectionOverview, view.Section())
}

func TestView_Esc(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))
	view.Update(keyMsg("enter"))

	_, cmd := view.Update(keyMsg("esc"))
	assert.Nil(t, cmd)
	assert.Equal(t, SectionOverview, view.Section())

	_, cmd = view.Update(keyMsg("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_ConfigReloaded(t *testing.T) {
	mockService := new(MockSettingsService)
	mockService.On("Get").Return(testSettings(), nil)
	view := newLoadedView(t, mockService)

	_, cmd := view.Update(messages.ConfigReloaded{})

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.SettingsLoaded)
	assert.True(t, ok)
}

func TestView_Reset(t *testing.T) {
	view := newLoadedView(t, new(MockSettingsService))
	view.Update(keyMsg("down"))
	view.Update(keyMsg("enter"))

	view.Reset()

	assert.Equal(t, SectionOverview, view.Section())
	assert.Equal(t, 0, view.selected)
	assert.Nil(t, view.err)
	assert.False(t, view.tokenInput.Focused())
}
