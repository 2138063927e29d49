package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

var addQuiet bool

var addCmd = &cobra.Command{
	Use:   "add <paths...>",
	Short: "Add documents to the knowledge base",
	Long: `Extracts text from PDF, DOCX and plain text files, splits it into chunks and
stores it in the catalog. Files whose content is already catalogued are skipped.

A failing file never stops the others; the command fails if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "only print the summary")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	reports := kb.ProcessDocuments(cmd.Context(), args, progressPrinter(cmd, addQuiet))

	var added, duplicates, failed int
	for _, r := range reports {
		switch {
		case !r.OK:
			failed++
		case r.Duplicate:
			duplicates++
		default:
			added++
		}
	}

	cmd.Printf("Added %d, already present %d, failed %d\n", added, duplicates, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(reports))
	}
	return nil
}

// progressPrinter prints ingestion events. Quiet mode keeps only failures.
func progressPrinter(cmd *cobra.Command, quiet bool) driving.ProgressListener {
	return driving.ProgressFunc(func(e domain.ProgressEvent) {
		name := filepath.Base(e.Path)
		switch e.Stage {
		case domain.StageFailed:
			cmd.PrintErrf("  failed   %s: %s\n", name, e.Message)
		case domain.StageDone, domain.StageSkipped:
			if !quiet {
				cmd.Printf("  %-8s %s\n", e.Stage, e.Message)
			}
		case domain.StageIndexing:
			if !quiet && e.Total > 0 {
				cmd.Printf("  %-8s %s: %d/%d\n", e.Stage, name, e.Current, e.Total)
			}
		default:
			if !quiet && verbose {
				cmd.Printf("  %-8s %s: %s\n", e.Stage, name, e.Message)
			}
		}
	})
}
