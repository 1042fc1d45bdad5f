package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/tui"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// TUIConfig holds configuration for the TUI command beyond the services.
type TUIConfig struct {
	// ExportDir receives spreadsheets exported from My Reviews.
	ExportDir string

	// LogPath receives log output while the alt screen is active.
	// Empty keeps logging on stderr.
	LogPath string

	// ConfigReloads fires when the config file changes on disk.
	ConfigReloads <-chan struct{}
}

// tuiConfig holds the current TUI configuration.
var tuiConfig = &TUIConfig{}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for reviewdesk.

The TUI covers documents, review criteria, review drafts, document chat,
chunk header onboarding, saved reviews and settings.

Controls:
  alt+1..8 - Jump to a section
  ctrl+b   - Collapse or expand the navbar
  ↑/k, ↓/j - Navigate
  Enter    - Select
  Esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

// SetTUIConfig sets the configuration for the TUI command.
func SetTUIConfig(config *TUIConfig) {
	if config == nil {
		config = &TUIConfig{}
	}
	tuiConfig = config
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the wired services.
func tuiPorts() *tui.Ports {
	ports := tui.NewPorts(companyService, documentService, criteriaService, reviewSession, settingsService)
	ports.Chat = chatSession
	ports.Chunks = chunkEditor
	ports.History = historyService
	ports.ExportDir = tuiConfig.ExportDir
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd)).WithConfigReloads(tuiConfig.ConfigReloads)

	if tuiConfig.LogPath != "" {
		f, err := os.OpenFile(tuiConfig.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stderr)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
