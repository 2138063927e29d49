package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/watcher"
)

var (
	watchNewOnly  bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Ingest documents as they appear in a directory",
	Long: `Adds every supported file under the directory, then keeps watching and adds
files as they are created or changed. Hidden files and unsupported formats
are skipped. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNewOnly, "new-only", false, "skip files that already exist")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(args[0], watcher.WithDebounce(watchDebounce), watcher.WithLogger(appLog))
	defer w.Close()

	printer := progressPrinter(cmd, false)

	if !watchNewOnly {
		existing, err := w.Existing()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			cmd.Printf("Adding %d existing files...\n", len(existing))
			kb.ProcessDocuments(ctx, existing, printer)
		}
	}

	paths, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Root())

	for path := range paths {
		// Failures are reported by the printer; watching continues.
		_, _ = kb.ProcessDocument(ctx, path, printer)
	}

	cmd.Println("Stopped watching.")
	return nil
}
