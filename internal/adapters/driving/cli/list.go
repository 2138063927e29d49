package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalogued documents, newest first",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	docs, err := kb.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents yet. Add some with: askdocs add <file>")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %4d  %-4s %5d chunks  %s  %s\n",
			docs[i].ID, docs[i].Format, docs[i].ChunkCount,
			docs[i].IngestedAt.Local().Format("2006-01-02 15:04"), docs[i].Name)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}
