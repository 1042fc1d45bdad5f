package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend connection, the review endpoint and
onboarding behaviour. Settings are stored in ~/.reviewdesk/config.toml and
running sessions pick up changes automatically.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change a setting",
}

var settingsBaseURLCmd = &cobra.Command{
	Use:   "base-url [url]",
	Short: "Set the backend root URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsBaseURL,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Set or clear the bearer token",
	Long: `Prompt for the bearer token sent with every backend request.
Enter an empty value to remove it.`,
	Args: cobra.NoArgs,
	RunE: runSettingsToken,
}

var settingsEndpointCmd = &cobra.Command{
	Use:   "endpoint [review1|review]",
	Short: "Select the review route",
	Long: `Select which review route submissions use.

Available endpoints:
  review1 - array of encoded clause results (default)
  review  - structured object`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsEndpoint,
}

var settingsAutosaveCmd = &cobra.Command{
	Use:   "autosave [on|off]",
	Short: "Toggle chunk header autosave on navigation",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsAutosave,
}

var settingsTimeoutCmd = &cobra.Command{
	Use:   "timeout [seconds]",
	Short: "Set the per-request timeout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettingInt(cmd, args[0], func(s *domain.AppSettings, n int) {
			s.Backend.TimeoutSeconds = n
		})
	},
}

var settingsRateLimitCmd = &cobra.Command{
	Use:   "rate-limit [requests-per-second]",
	Short: "Limit backend requests per second (0 disables)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettingInt(cmd, args[0], func(s *domain.AppSettings, n int) {
			s.Backend.RateLimit = n
		})
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsSetCmd.AddCommand(settingsBaseURLCmd)
	settingsSetCmd.AddCommand(settingsTokenCmd)
	settingsSetCmd.AddCommand(settingsEndpointCmd)
	settingsSetCmd.AddCommand(settingsAutosaveCmd)
	settingsSetCmd.AddCommand(settingsTimeoutCmd)
	settingsSetCmd.AddCommand(settingsRateLimitCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Base URL: %s\n", settings.Backend.BaseURL)
	cmd.Printf("  Timeout: %ds\n", settings.Backend.TimeoutSeconds)
	if settings.Backend.RateLimit > 0 {
		cmd.Printf("  Rate limit: %d req/s\n", settings.Backend.RateLimit)
	} else {
		cmd.Println("  Rate limit: off")
	}
	if settings.Backend.Token != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.Backend.Token))
	} else {
		cmd.Println("  Token: (not set)")
	}
	cmd.Println()

	cmd.Println("[Review]")
	cmd.Printf("  Endpoint: %s\n", settings.Review.Endpoint.Description())
	cmd.Println()

	cmd.Println("[Onboarding]")
	cmd.Printf("  Autosave: %s\n", onOff(settings.Onboarding.Autosave))
	cmd.Println()

	if path := settingsService.ConfigPath(); path != "" {
		cmd.Printf("Config file: %s\n", path)
	}
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsBaseURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	if err := settingsService.SetBaseURL(args[0]); err != nil {
		return fmt.Errorf("failed to set base URL: %w", err)
	}
	cmd.Printf("Backend base URL set to %s\n", strings.TrimRight(args[0], "/"))
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	cmd.Print("Enter bearer token (empty to clear): ")
	token := readPassword(cmd.InOrStdin())
	cmd.Println()

	if err := settingsService.SetToken(token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	if token == "" {
		cmd.Println("Token removed.")
	} else {
		cmd.Printf("Token set: %s\n", maskAPIKey(token))
	}
	return nil
}

func runSettingsEndpoint(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	endpoint := domain.ReviewEndpoint(strings.TrimSpace(args[0]))
	if !endpoint.IsValid() {
		return fmt.Errorf("unknown review endpoint %q: use review1 or review", args[0])
	}
	if err := settingsService.SetReviewEndpoint(endpoint); err != nil {
		return fmt.Errorf("failed to set review endpoint: %w", err)
	}
	cmd.Printf("Review endpoint set to: %s\n", endpoint.Description())
	return nil
}

func runSettingsAutosave(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	enabled, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetAutosave(enabled); err != nil {
		return fmt.Errorf("failed to set autosave: %w", err)
	}
	cmd.Printf("Autosave %s\n", onOff(enabled))
	return nil
}

func updateSettingInt(cmd *cobra.Command, arg string, apply func(*domain.AppSettings, int)) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("%q is not a number: %w", arg, domain.ErrInvalidInput)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	apply(settings, n)
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}
	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
