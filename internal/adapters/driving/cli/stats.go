package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base totals",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}

// statsJSONOutput is the JSON shape of the stats command.
type statsJSONOutput struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	FileTypes      map[string]int `json:"file_types"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	stats, err := kb.GetDocumentStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if statsJSON {
		out := statsJSONOutput{
			TotalDocuments: stats.TotalDocuments,
			TotalChunks:    stats.TotalChunks,
			FileTypes:      stats.FileTypes,
		}
		if out.FileTypes == nil {
			out.FileTypes = map[string]int{}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d\n", stats.TotalDocuments)
	cmd.Printf("Chunks:    %d\n", stats.TotalChunks)
	if len(stats.FileTypes) > 0 {
		formats := make([]string, 0, len(stats.FileTypes))
		for f := range stats.FileTypes {
			formats = append(formats, f)
		}
		sort.Strings(formats)
		cmd.Println("File types:")
		for _, f := range formats {
			cmd.Printf("  %-5s %d\n", f, stats.FileTypes[f])
		}
	}
	return nil
}
