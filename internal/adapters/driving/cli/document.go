package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentFormat string

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc", "docs"},
	Short:   "Manage uploaded documents",
	Long: `List, upload and delete the documents of a company.

Companies may be given by ID or exact name. Only PDF and TIFF files can be
uploaded; the type is detected from the file content.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [company]",
	Short: "List documents of a company",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [company] [file...]",
	Short: "Upload PDF or TIFF files",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runDocumentUpload,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentListCmd.Flags().StringVarP(&documentFormat, "format", "f", formatText, "output format: text, json or yaml")
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}
	if err := validFormat(documentFormat); err != nil {
		return err
	}
	ctx := commandContext(cmd)

	company, err := resolveCompany(ctx, args[0])
	if err != nil {
		return err
	}
	docs, err := documentService.List(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if done, err := writeStructured(cmd, documentFormat, toDocumentViews(docs)); done {
		return err
	}

	if len(docs) == 0 {
		cmd.Printf("No documents for %s.\n", company.Name)
		return nil
	}
	cmd.Printf("Documents for %s:\n", company.Name)
	for _, d := range docs {
		cmd.Printf("  %-36s  %s\n", d.ID, d.Name)
	}
	return nil
}

// runDocumentUpload uploads each file in turn and stops at the first failure.
func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}
	ctx := commandContext(cmd)

	company, err := resolveCompany(ctx, args[0])
	if err != nil {
		return err
	}
	for _, path := range args[1:] {
		doc, err := documentService.Upload(ctx, company.ID, path)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}
		cmd.Printf("Uploaded %s (%s)\n", doc.Name, doc.ID)
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}
	if err := documentService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
