package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// snippetLength bounds the chunk preview printed per result.
const snippetLength = 200

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Long: `Returns the chunks most relevant to the query.
Uses semantic search when embeddings are available and falls back to
keyword matching, where every hit scores 0.5.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchResultJSON is the JSON shape of a search hit.
type searchResultJSON struct {
	Source     string  `json:"source"`
	DocumentID int64   `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Path       string  `json:"path"`
	Content    string  `json:"content"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := kb.SearchKnowledge(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{
			Source:     r.SourceName,
			DocumentID: r.DocumentID,
			ChunkIndex: r.ChunkIndex,
			Score:      r.RelevanceScore,
			Path:       string(r.Path),
			Content:    r.Content,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s #%d (%.2f)\n", i+1, results[i].SourceName, results[i].ChunkIndex, results[i].RelevanceScore)
		cmd.Printf("      %s\n", snippet(results[i].Content, snippetLength))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and cuts text to at most limit runes.
func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
