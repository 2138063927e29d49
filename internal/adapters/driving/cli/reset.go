package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var resetYes bool

// stdinIsTerminal reports whether confirmation can be asked interactively.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every document and chunk",
	Long: `Clears the catalog and the semantic index in one step.
Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	if !resetYes {
		if !stdinIsTerminal() {
			return errors.New("refusing to reset without --yes when not running interactively")
		}
		stats, err := kb.GetDocumentStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		cmd.Printf("This removes %d documents and %d chunks. Continue? [y/N] ",
			stats.TotalDocuments, stats.TotalChunks)
		if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if assistant != nil {
		err = assistant.Reset(cmd.Context())
	} else {
		err = kb.ClearKnowledgeBase(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("Knowledge base cleared.")
	return nil
}

func confirmed(reader *bufio.Reader) bool {
	answer := strings.ToLower(readLine(reader))
	return answer == "y" || answer == "yes"
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
