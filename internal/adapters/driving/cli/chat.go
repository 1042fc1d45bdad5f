package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reviewdesk/internal/core/domain"
)

var (
	chatCompany string
	chatDocs    []string
	chatQuery   string
)

var (
	userLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	aiLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	dimText   = color.New(color.Faint).SprintFunc()
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with selected documents",
	Long: `Ask questions about one or more documents of a company.

Without --query an interactive session starts. Type /docs to list the
company's documents, /toggle <id> to change the selection and /quit to leave.

Examples:
  reviewdesk chat --company Acme --doc msa.pdf
  reviewdesk chat -c Acme -d 12 -d 14 --query "What is the payment term?"`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatCompany, "company", "c", "", "company ID or name (required)")
	chatCmd.Flags().StringArrayVarP(&chatDocs, "doc", "d", nil, "document ID or name, repeatable")
	chatCmd.Flags().StringVarP(&chatQuery, "query", "q", "", "ask one question and exit")
	_ = chatCmd.MarkFlagRequired("company")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatSession == nil {
		return notConfigured("chat")
	}
	ctx := commandContext(cmd)

	company, err := resolveCompany(ctx, chatCompany)
	if err != nil {
		return err
	}
	docs, err := chatSession.SelectCompany(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	ids, err := pickDocuments(docs, chatDocs, false)
	if err != nil {
		return err
	}
	for _, id := range ids {
		chatSession.ToggleDocument(id)
	}

	if chatQuery != "" {
		reply, err := chatSession.Send(ctx, chatQuery)
		if err != nil {
			return err
		}
		cmd.Println(reply.Content)
		return nil
	}

	cmd.Printf("Chatting with %s. /docs, /toggle <id>, /quit\n", company.Name)
	printSelection(cmd, docs)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print(userLabel("you> "))
		if !in.Scan() {
			if err := in.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			cmd.Println()
			return nil
		}
		line := strings.TrimSpace(in.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/docs":
			printSelection(cmd, docs)
			continue
		case strings.HasPrefix(line, "/toggle "):
			ref := strings.TrimSpace(strings.TrimPrefix(line, "/toggle "))
			ids, err := pickDocuments(docs, []string{ref}, false)
			if err != nil {
				cmd.Println(err)
				continue
			}
			chatSession.ToggleDocument(ids[0])
			printSelection(cmd, docs)
			continue
		}

		reply, err := chatSession.Send(ctx, line)
		if err != nil {
			if errors.Is(err, domain.ErrNoDocumentsSelected) {
				cmd.Println("Select at least one document with /toggle <id>.")
				continue
			}
			return err
		}
		cmd.Printf("%s %s\n", aiLabel("ai>"), reply.Content)
	}
}

func printSelection(cmd *cobra.Command, docs []domain.Document) {
	selected := make(map[string]bool)
	for _, id := range chatSession.SelectedDocuments() {
		selected[id] = true
	}
	if len(docs) == 0 {
		cmd.Println(dimText("  (no documents)"))
		return
	}
	for _, d := range docs {
		mark := "[ ]"
		if selected[d.ID] {
			mark = "[x]"
		}
		cmd.Printf("  %s %s %s\n", mark, d.Name, dimText("("+d.ID+")"))
	}
}
