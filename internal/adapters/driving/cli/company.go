package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var companyFormat string

var companyCmd = &cobra.Command{
	Use:     "company",
	Aliases: []string{"companies"},
	Short:   "Manage companies",
	Long:    `List, create and delete the companies that own uploaded documents.`,
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies",
	Args:  cobra.NoArgs,
	RunE:  runCompanyList,
}

var companyCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a company",
	Long:  `Create a company. Names must be unique; a duplicate is rejected before any request is sent.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCompanyCreate,
}

var companyDeleteCmd = &cobra.Command{
	Use:   "delete [company]",
	Short: "Delete a company and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompanyDelete,
}

func init() {
	companyListCmd.Flags().StringVarP(&companyFormat, "format", "f", formatText, "output format: text, json or yaml")
	companyCmd.AddCommand(companyListCmd)
	companyCmd.AddCommand(companyCreateCmd)
	companyCmd.AddCommand(companyDeleteCmd)
	rootCmd.AddCommand(companyCmd)
}

func runCompanyList(cmd *cobra.Command, _ []string) error {
	if companyService == nil {
		return notConfigured("company")
	}
	if err := validFormat(companyFormat); err != nil {
		return err
	}

	companies, err := companyService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	if done, err := writeStructured(cmd, companyFormat, toCompanyViews(companies)); done {
		return err
	}

	if len(companies) == 0 {
		cmd.Println("No companies yet. Create one with: reviewdesk company create <name>")
		return nil
	}
	for _, c := range companies {
		cmd.Printf("  %-36s  %s\n", c.ID, c.Name)
	}
	return nil
}

func runCompanyCreate(cmd *cobra.Command, args []string) error {
	if companyService == nil {
		return notConfigured("company")
	}

	company, err := companyService.Create(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	cmd.Printf("Created company %s (%s)\n", company.Name, company.ID)
	return nil
}

func runCompanyDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	company, err := resolveCompany(ctx, args[0])
	if err != nil {
		return err
	}
	if err := companyService.Delete(ctx, company.ID); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	cmd.Printf("Deleted company %s\n", company.Name)
	return nil
}
