package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	chunkFormat string
	chunkFull   bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Inspect and label document chunks",
	Long: `Manual onboarding: list the chunks the backend split a document into and
set the header each chunk is filed under. Chunk numbers start at 1.`,
}

var chunkListCmd = &cobra.Command{
	Use:   "list [document-id]",
	Short: "List chunks of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunkList,
}

var chunkHeaderCmd = &cobra.Command{
	Use:   "header [document-id] [chunk-number] [header]",
	Short: "Set the header of one chunk",
	Args:  cobra.ExactArgs(3),
	RunE:  runChunkHeader,
}

func init() {
	chunkListCmd.Flags().StringVarP(&chunkFormat, "format", "f", formatText, "output format: text, json or yaml")
	chunkListCmd.Flags().BoolVar(&chunkFull, "full", false, "print full chunk content")
	chunkCmd.AddCommand(chunkListCmd)
	chunkCmd.AddCommand(chunkHeaderCmd)
	rootCmd.AddCommand(chunkCmd)
}

func runChunkList(cmd *cobra.Command, args []string) error {
	if chunkEditor == nil {
		return notConfigured("chunk")
	}
	if err := validFormat(chunkFormat); err != nil {
		return err
	}

	if err := chunkEditor.Load(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}
	chunks := chunkEditor.Chunks()

	views := make([]chunkView, 0, len(chunks))
	for i, c := range chunks {
		views = append(views, chunkView{Index: i + 1, ID: c.ID, Header: c.Header, Content: c.Content})
	}
	if done, err := writeStructured(cmd, chunkFormat, views); done {
		return err
	}

	if len(chunks) == 0 {
		cmd.Println("Document has no chunks.")
		return nil
	}
	for _, v := range views {
		header := v.Header
		if header == "" {
			header = "(no header)"
		}
		cmd.Printf("[%d/%d] %s\n", v.Index, len(views), header)
		if chunkFull {
			cmd.Println(v.Content)
		} else {
			cmd.Printf("      %s\n", truncate(v.Content, 100))
		}
	}
	return nil
}

func runChunkHeader(cmd *cobra.Command, args []string) error {
	if chunkEditor == nil {
		return notConfigured("chunk")
	}
	ctx := commandContext(cmd)

	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return fmt.Errorf("invalid chunk number %q", args[1])
	}
	if err := chunkEditor.Load(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}
	total := len(chunkEditor.Chunks())
	if n > total {
		return fmt.Errorf("chunk %d out of range (document has %d)", n, total)
	}
	for chunkEditor.Index() < n-1 {
		if err := chunkEditor.Next(ctx); err != nil {
			return err
		}
	}

	if err := chunkEditor.SetHeader(args[2]); err != nil {
		return err
	}
	if err := chunkEditor.Save(ctx); err != nil {
		return fmt.Errorf("failed to save header: %w", err)
	}
	cmd.Printf("Chunk %d/%d header set to %q\n", n, total, args[2])
	return nil
}
