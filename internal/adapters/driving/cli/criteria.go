package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

var (
	criteriaFormat    string
	clauseDescription string
	clauseGenerate    bool
	clauseNewName     string
	groupDeleteYes    bool
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Manage review criteria",
	Long: `Review criteria are named clauses collected into criteria groups. A review
checks documents against every clause of one group.

Groups may be given by ID or exact name.`,
}

var criteriaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List criteria groups with their clauses",
	Args:  cobra.NoArgs,
	RunE:  runCriteriaList,
}

var criteriaShowCmd = &cobra.Command{
	Use:   "show [group]",
	Short: "Show one criteria group",
	Args:  cobra.ExactArgs(1),
	RunE:  runCriteriaShow,
}

var criteriaClausesCmd = &cobra.Command{
	Use:   "clauses",
	Short: "List every clause",
	Args:  cobra.NoArgs,
	RunE:  runCriteriaClauses,
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Create and delete criteria groups",
}

var groupCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a criteria group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupCreate,
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete [group]",
	Short: "Delete a criteria group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupDelete,
}

var clauseCmd = &cobra.Command{
	Use:   "clause",
	Short: "Manage clauses",
}

var clauseAddCmd = &cobra.Command{
	Use:   "add [group] [name]",
	Short: "Create a clause inside a group",
	Long: `Create a clause inside a group. Use --generate to have the backend write
the description from the clause name.`,
	Args: cobra.ExactArgs(2),
	RunE: runClauseAdd,
}

var clauseAttachCmd = &cobra.Command{
	Use:   "attach [group] [clause-id]",
	Short: "Add an existing clause to a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runClauseAttach,
}

var clauseDetachCmd = &cobra.Command{
	Use:   "detach [group] [clause-id]",
	Short: "Remove a clause from one group",
	Args:  cobra.ExactArgs(2),
	RunE:  runClauseDetach,
}

var clauseEditCmd = &cobra.Command{
	Use:   "edit [clause-id]",
	Short: "Rename a clause or change its description",
	Args:  cobra.ExactArgs(1),
	RunE:  runClauseEdit,
}

var clauseDeleteCmd = &cobra.Command{
	Use:   "delete [clause-id]",
	Short: "Delete a clause from every group",
	Args:  cobra.ExactArgs(1),
	RunE:  runClauseDelete,
}

var clauseDescribeCmd = &cobra.Command{
	Use:   "describe [name]",
	Short: "Generate a description for a clause name",
	Args:  cobra.ExactArgs(1),
	RunE:  runClauseDescribe,
}

func init() {
	criteriaListCmd.Flags().StringVarP(&criteriaFormat, "format", "f", formatText, "output format: text, json or yaml")
	criteriaShowCmd.Flags().StringVarP(&criteriaFormat, "format", "f", formatText, "output format: text, json or yaml")
	groupDeleteCmd.Flags().BoolVarP(&groupDeleteYes, "yes", "y", false, "skip confirmation")
	clauseAddCmd.Flags().StringVarP(&clauseDescription, "description", "d", "", "clause description")
	clauseAddCmd.Flags().BoolVar(&clauseGenerate, "generate", false, "generate the description with the backend")
	clauseEditCmd.Flags().StringVar(&clauseNewName, "name", "", "new clause name")
	clauseEditCmd.Flags().StringVarP(&clauseDescription, "description", "d", "", "new clause description")

	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd)
	clauseCmd.AddCommand(clauseAddCmd, clauseAttachCmd, clauseDetachCmd, clauseEditCmd, clauseDeleteCmd, clauseDescribeCmd)
	criteriaCmd.AddCommand(criteriaListCmd, criteriaShowCmd, criteriaClausesCmd, groupCmd, clauseCmd)
	rootCmd.AddCommand(criteriaCmd)
}

// loadCriteria makes sure the catalogue is populated.
func loadCriteria(ctx context.Context) error {
	if criteriaService == nil {
		return notConfigured("criteria")
	}
	if criteriaService.Loaded() {
		return nil
	}
	if err := criteriaService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load criteria: %w", err)
	}
	return nil
}

func printGroup(cmd *cobra.Command, g domain.CriteriaGroup) {
	cmd.Printf("%s (%s)\n", g.Name, g.ID)
	if len(g.Clauses) == 0 {
		cmd.Println("  (no clauses)")
		return
	}
	for _, c := range g.Clauses {
		cmd.Printf("  - %s [%s]\n", c.Name, c.ID)
		if c.Description != "" {
			cmd.Printf("      %s\n", truncate(c.Description, 100))
		}
	}
}

func runCriteriaList(cmd *cobra.Command, _ []string) error {
	if err := validFormat(criteriaFormat); err != nil {
		return err
	}
	if err := loadCriteria(commandContext(cmd)); err != nil {
		return err
	}

	groups := criteriaService.Groups()
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, toGroupView(g))
	}
	if done, err := writeStructured(cmd, criteriaFormat, views); done {
		return err
	}

	if len(groups) == 0 {
		cmd.Println("No criteria groups yet. Create one with: reviewdesk criteria group create <name>")
		return nil
	}
	for _, g := range groups {
		printGroup(cmd, g)
		cmd.Println()
	}
	return nil
}

func runCriteriaShow(cmd *cobra.Command, args []string) error {
	if err := validFormat(criteriaFormat); err != nil {
		return err
	}
	group, err := resolveGroup(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	if done, err := writeStructured(cmd, criteriaFormat, toGroupView(*group)); done {
		return err
	}
	printGroup(cmd, *group)
	return nil
}

func runCriteriaClauses(cmd *cobra.Command, _ []string) error {
	if err := loadCriteria(commandContext(cmd)); err != nil {
		return err
	}
	clauses := criteriaService.Clauses()
	if len(clauses) == 0 {
		cmd.Println("No clauses.")
		return nil
	}
	for _, c := range clauses {
		cmd.Printf("  %-36s  %s\n", c.ID, c.Name)
	}
	return nil
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if err := loadCriteria(ctx); err != nil {
		return err
	}
	group, err := criteriaService.CreateGroup(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	if group == nil {
		return fmt.Errorf("group name is required: %w", domain.ErrInvalidInput)
	}
	cmd.Printf("Created criteria group %s (%s)\n", group.Name, group.ID)
	return nil
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	group, err := resolveGroup(ctx, args[0])
	if err != nil {
		return err
	}
	if !groupDeleteYes && !confirm(cmd, fmt.Sprintf("Delete criteria group %q?", group.Name)) {
		cmd.Println("Cancelled.")
		return nil
	}
	if err := criteriaService.DeleteGroup(ctx, group.ID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	cmd.Printf("Deleted criteria group %s\n", group.Name)
	return nil
}

func runClauseAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	group, err := resolveGroup(ctx, args[0])
	if err != nil {
		return err
	}

	description := clauseDescription
	if clauseGenerate {
		description, err = criteriaService.GenerateDescription(ctx, args[1])
		if err != nil {
			return fmt.Errorf("failed to generate description: %w", err)
		}
	}

	clause, err := criteriaService.CreateClause(ctx, group.ID, args[1], description)
	if err != nil {
		return fmt.Errorf("failed to create clause: %w", err)
	}
	cmd.Printf("Added clause %s (%s) to %s\n", clause.Name, clause.ID, group.Name)
	if clause.Description != "" {
		cmd.Printf("  %s\n", clause.Description)
	}
	return nil
}

func runClauseAttach(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	group, err := resolveGroup(ctx, args[0])
	if err != nil {
		return err
	}
	if err := criteriaService.AttachClause(ctx, group.ID, args[1]); err != nil {
		return fmt.Errorf("failed to attach clause: %w", err)
	}
	cmd.Printf("Attached clause %s to %s\n", args[1], group.Name)
	return nil
}

func runClauseDetach(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	group, err := resolveGroup(ctx, args[0])
	if err != nil {
		return err
	}
	if err := criteriaService.DetachClause(ctx, group.ID, args[1]); err != nil {
		return fmt.Errorf("failed to detach clause: %w", err)
	}
	cmd.Printf("Detached clause %s from %s\n", args[1], group.Name)
	return nil
}

func findClause(id string) (*domain.Clause, error) {
	for _, c := range criteriaService.Clauses() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("clause %q: %w", id, domain.ErrNotFound)
}

func runClauseEdit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if err := loadCriteria(ctx); err != nil {
		return err
	}
	clause, err := findClause(args[0])
	if err != nil {
		return err
	}

	name, description := clause.Name, clause.Description
	if cmd.Flags().Changed("name") {
		name = clauseNewName
	}
	if cmd.Flags().Changed("description") {
		description = clauseDescription
	}
	if err := criteriaService.EditClause(ctx, clause.ID, name, description); err != nil {
		return fmt.Errorf("failed to edit clause: %w", err)
	}
	cmd.Printf("Updated clause %s\n", name)
	return nil
}

func runClauseDelete(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if err := loadCriteria(ctx); err != nil {
		return err
	}
	if err := criteriaService.DeleteClause(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete clause: %w", err)
	}
	cmd.Printf("Deleted clause %s\n", args[0])
	return nil
}

func runClauseDescribe(cmd *cobra.Command, args []string) error {
	if criteriaService == nil {
		return notConfigured("criteria")
	}
	desc, err := criteriaService.GenerateDescription(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to generate description: %w", err)
	}
	cmd.Println(desc)
	return nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
