package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/ports/driving"
)

var (
	reviewCompany string
	reviewGroup   string
	reviewDocs    []string
	reviewAllDocs bool
	reviewPO      string
	reviewFormat  string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review documents against criteria",
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit documents for clause review",
	Long: `Submit documents of one company for review against a criteria group and
print the quotes found for every clause. Successful reviews are saved to the
local history.

Examples:
  reviewdesk review submit --company Acme --group Supply --doc msa.pdf --doc po.pdf
  reviewdesk review submit -c Acme -g Supply --all --format yaml`,
	Args: cobra.NoArgs,
	RunE: runReviewSubmit,
}

func init() {
	f := reviewSubmitCmd.Flags()
	f.StringVarP(&reviewCompany, "company", "c", "", "company ID or name (required)")
	f.StringVarP(&reviewGroup, "group", "g", "", "criteria group ID or name (required)")
	f.StringArrayVarP(&reviewDocs, "doc", "d", nil, "document ID or name, repeatable")
	f.BoolVar(&reviewAllDocs, "all", false, "review every document of the company")
	f.StringVar(&reviewPO, "purchase-order", "", "purchase order file to note on the draft")
	f.StringVarP(&reviewFormat, "format", "f", formatText, "output format: text, json or yaml")
	_ = reviewSubmitCmd.MarkFlagRequired("company")
	_ = reviewSubmitCmd.MarkFlagRequired("group")
	reviewSubmitCmd.MarkFlagsMutuallyExclusive("doc", "all")

	reviewCmd.AddCommand(reviewSubmitCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReviewSubmit(cmd *cobra.Command, _ []string) error {
	if reviewSession == nil {
		return notConfigured("review")
	}
	if err := validFormat(reviewFormat); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	opts, err := reviewSession.LoadOptions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load review options: %w", err)
	}
	company, err := pickCompany(opts, reviewCompany)
	if err != nil {
		return err
	}
	group, err := pickGroup(opts, reviewGroup)
	if err != nil {
		return err
	}

	reviewSession.SetCompany(company.ID)
	reviewSession.SetCriteriaGroup(group)
	reviewSession.SetPurchaseOrder(reviewPO)

	docs, err := reviewSession.Documents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	ids, err := pickDocuments(docs, reviewDocs, reviewAllDocs)
	if err != nil {
		return err
	}
	reviewSession.SetFiles(ids)

	result, err := reviewSession.Submit(ctx)
	if err != nil {
		return err
	}

	if done, err := writeStructured(cmd, reviewFormat, toResultView(result)); done {
		return err
	}
	cmd.Printf("Review of %d document(s) for %s against %q\n\n", len(ids), company.Name, group.Name)
	printResult(cmd, result)
	return nil
}

func pickCompany(opts *driving.ReviewOptions, ref string) (*domain.Company, error) {
	for i := range opts.Companies {
		if opts.Companies[i].ID == ref || opts.Companies[i].Name == ref {
			return &opts.Companies[i], nil
		}
	}
	return nil, fmt.Errorf("company %q: %w", ref, domain.ErrNotFound)
}

func pickGroup(opts *driving.ReviewOptions, ref string) (*domain.CriteriaGroup, error) {
	for i := range opts.Groups {
		if opts.Groups[i].ID == ref || opts.Groups[i].Name == ref {
			return &opts.Groups[i], nil
		}
	}
	return nil, fmt.Errorf("criteria group %q: %w", ref, domain.ErrNotFound)
}

func pickDocuments(docs []domain.Document, refs []string, all bool) ([]string, error) {
	if all {
		ids := make([]string, 0, len(docs))
		for _, d := range docs {
			ids = append(ids, d.ID)
		}
		return ids, nil
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

func printResult(cmd *cobra.Command, result domain.ReviewResult) {
	if len(result) == 0 {
		cmd.Println("No clauses were reviewed.")
		return
	}
	for _, clause := range result {
		cmd.Printf("%s (%d quote(s))\n", clause.ClauseName, len(clause.Quotes))
		if len(clause.Quotes) == 0 {
			cmd.Println("  no relevant passages found")
		}
		for _, q := range clause.Quotes {
			label := q.DocumentType
			if q.Header != "" {
				if label != "" {
					label += " / "
				}
				label += q.Header
			}
			if label != "" {
				cmd.Printf("  [%s]\n", label)
			}
			cmd.Printf("  %q\n", truncate(q.Content, 300))
		}
		cmd.Println()
	}
}
