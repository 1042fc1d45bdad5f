// Package cli provides the cobra command tree for reviewdesk.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var verbose bool

// Services wired by main. Commands fail with a clear message when one is nil.
var (
	companyService  driving.CompanyService
	documentService driving.DocumentService
	criteriaService driving.CriteriaService
	reviewSession   driving.ReviewSession
	chatSession     driving.ChatSession
	chunkEditor     driving.ChunkEditor
	historyService  driving.HistoryService
	settingsService driving.SettingsService
)

// Services groups every driving port the commands use.
type Services struct {
	Company  driving.CompanyService
	Document driving.DocumentService
	Criteria driving.CriteriaService
	Review   driving.ReviewSession
	Chat     driving.ChatSession
	Chunks   driving.ChunkEditor
	History  driving.HistoryService
	Settings driving.SettingsService
}

// SetServices installs the services used by all commands.
func SetServices(s Services) {
	companyService = s.Company
	documentService = s.Document
	criteriaService = s.Criteria
	reviewSession = s.Review
	chatSession = s.Chat
	chunkEditor = s.Chunks
	historyService = s.History
	settingsService = s.Settings
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "reviewdesk",
	Short: "Contract review desk",
	Long: `reviewdesk manages companies, documents and review criteria on a
contract review backend, submits documents for clause review and chats
with selected documents.

Run "reviewdesk tui" for the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// RootCommand exposes the command tree, mainly for documentation tooling.
func RootCommand() *cobra.Command {
	return rootCmd
}

func notConfigured(name string) error {
	return errors.New(name + " service not configured")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// resolveCompany accepts a company ID or exact name.
func resolveCompany(ctx context.Context, ref string) (*domain.Company, error) {
	if companyService == nil {
		return nil, notConfigured("company")
	}
	companies, err := companyService.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	for i := range companies {
		if companies[i].ID == ref {
			return &companies[i], nil
		}
	}
	if c, ok := domain.FindCompanyByName(companies, strings.TrimSpace(ref)); ok {
		return &c, nil
	}
	return nil, fmt.Errorf("company %q: %w", ref, domain.ErrNotFound)
}

// resolveGroup accepts a criteria group ID or exact name.
func resolveGroup(ctx context.Context, ref string) (*domain.CriteriaGroup, error) {
	if criteriaService == nil {
		return nil, notConfigured("criteria")
	}
	if !criteriaService.Loaded() {
		if err := criteriaService.Load(ctx); err != nil {
			return nil, fmt.Errorf("load criteria: %w", err)
		}
	}
	if g, err := criteriaService.Group(ref); err == nil {
		return g, nil
	}
	for _, g := range criteriaService.Groups() {
		if g.Name == ref {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("criteria group %q: %w", ref, domain.ErrNotFound)
}

// resolveDocuments maps document IDs or names within a company to IDs.
func resolveDocuments(ctx context.Context, companyID string, refs []string) ([]string, error) {
	if documentService == nil {
		return nil, notConfigured("document")
	}
	docs, err := documentService.List(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		found := ""
		for _, d := range docs {
			if d.ID == ref || d.Name == ref {
				found = d.ID
				break
			}
		}
		if found == "" {
			return nil, fmt.Errorf("document %q: %w", ref, domain.ErrNotFound)
		}
		ids = append(ids, found)
	}
	return ids, nil
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
