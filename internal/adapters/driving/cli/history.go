package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyFormat string
	historyYes    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved review results",
	Long:  `Every successful review is saved locally. List, inspect, export or delete saved reviews.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reviews, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [review-id]",
	Short: "Show a saved review",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyExportCmd = &cobra.Command{
	Use:   "export [review-id] [file.xlsx]",
	Short: "Export a saved review to a spreadsheet",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistoryExport,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [review-id]",
	Short: "Delete a saved review",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().StringVarP(&historyFormat, "format", "f", formatText, "output format: text, json or yaml")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", formatText, "output format: text, json or yaml")
	historyDeleteCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "skip confirmation")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return notConfigured("history")
	}
	if err := validFormat(historyFormat); err != nil {
		return err
	}

	records, err := historyService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, toRecordView(r, false))
	}
	if done, err := writeStructured(cmd, historyFormat, views); done {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No saved reviews.")
		return nil
	}
	for _, r := range records {
		cmd.Printf("  %s  %s  %-20s  %-20s  %d clause(s), %d quote(s)\n",
			r.ID,
			r.ReviewedAt.Local().Format(time.DateTime),
			truncate(r.CompanyName, 20),
			truncate(r.CriteriaName, 20),
			len(r.Result),
			r.Result.QuoteCount(),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return notConfigured("history")
	}
	if err := validFormat(historyFormat); err != nil {
		return err
	}

	record, err := historyService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}

	if done, err := writeStructured(cmd, historyFormat, toRecordView(*record, true)); done {
		return err
	}

	cmd.Printf("Review %s\n", record.ID)
	cmd.Printf("  Company:   %s\n", record.CompanyName)
	cmd.Printf("  Criteria:  %s\n", record.CriteriaName)
	cmd.Printf("  Documents: %s\n", strings.Join(record.DocumentIDs, ", "))
	cmd.Printf("  Reviewed:  %s\n\n", record.ReviewedAt.Local().Format(time.DateTime))
	printResult(cmd, record.Result)
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return notConfigured("history")
	}

	path := args[1]
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		path += ".xlsx"
	}
	if err := historyService.Export(commandContext(cmd), args[0], path); err != nil {
		return fmt.Errorf("failed to export review: %w", err)
	}
	cmd.Printf("Exported review %s to %s\n", args[0], path)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return notConfigured("history")
	}
	if !historyYes && !confirm(cmd, fmt.Sprintf("Delete saved review %s?", args[0])) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := historyService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	cmd.Printf("Deleted review %s\n", args[0])
	return nil
}
