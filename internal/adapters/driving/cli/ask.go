package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// readyTimeout bounds the model server check before asking.
const readyTimeout = 3 * time.Second

var (
	askNoContext bool
	askExtra     string
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your documents",
	Long: `Retrieves the chunks most relevant to the question and asks the language
model to answer from them. Use --no-context to ask the model directly.

If the model server cannot be reached the answer is a fixed apology and the
command still succeeds.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoContext, "no-context", false, "do not include document context")
	askCmd.Flags().StringVar(&askExtra, "context", "", "additional context appended to the prompt")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistant == nil {
		return errors.New("assistant not configured")
	}

	readyCtx, cancel := context.WithTimeout(cmd.Context(), readyTimeout)
	err := assistant.Ready(readyCtx)
	cancel()
	if err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}

	turn, err := assistant.Ask(cmd.Context(), strings.Join(args, " "), domain.AskOptions{
		UseContext:   !askNoContext,
		ExtraContext: askExtra,
	})
	if err != nil {
		return err
	}

	cmd.Println(turn.Answer)
	if len(turn.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(turn.Sources, ", "))
	}
	return nil
}
