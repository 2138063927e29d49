package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// defaultSearchLimit is used when the caller does not pass a limit.
const defaultSearchLimit = 5

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"text to look for in the processed documents"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked chunk.
type SearchResultOutput struct {
	Content        string  `json:"content"`
	SourceName     string  `json:"source_name"`
	DocumentID     int64   `json:"document_id"`
	ChunkIndex     int     `json:"chunk_index"`
	RelevanceScore float64 `json:"relevance_score"`
	Path           string  `json:"path"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question     string `json:"question" jsonschema:"the question to answer"`
	NoContext    bool   `json:"no_context,omitempty" jsonschema:"answer without searching the documents"`
	ExtraContext string `json:"extra_context,omitempty" jsonschema:"additional text to include in the prompt"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer      string   `json:"answer"`
	ContextUsed bool     `json:"context_used"`
	Sources     []string `json:"sources,omitempty"`
}

// StatsInput is the (empty) input schema for the get_document_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the get_document_stats tool.
type StatsOutput struct {
	TotalDocuments int            `json:"total_documents"`
	TotalChunks    int            `json:"total_chunks"`
	FileTypes      map[string]int `json:"file_types"`
}

// ProcessInput is the input schema for the process_document tool.
type ProcessInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF, DOCX or TXT file on this machine"`
}

// ProcessOutput is the output schema for the process_document tool.
type ProcessOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search the processed documents for passages relevant to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the processed documents as context",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_stats",
		Description: "Count processed documents and chunks by file type",
	}, s.handleStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: "Add a local PDF, DOCX or TXT file to the knowledge base",
	}, s.handleProcess)
}

// handleSearch handles the search_knowledge tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.MaxResults
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Knowledge.SearchKnowledge(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Content:        results[i].Content,
			SourceName:     results[i].SourceName,
			DocumentID:     results[i].DocumentID,
			ChunkIndex:     results[i].ChunkIndex,
			RelevanceScore: results[i].RelevanceScore,
			Path:           string(results[i].Path),
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Assistant == nil {
		return nil, AskOutput{}, domain.ErrLLMUnavailable
	}

	turn, err := s.ports.Assistant.Ask(ctx, input.Question, domain.AskOptions{
		UseContext:   !input.NoContext,
		ExtraContext: input.ExtraContext,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:      turn.Answer,
		ContextUsed: turn.ContextUsed,
		Sources:     turn.Sources,
	}, nil
}

// handleStats handles the get_document_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Knowledge.GetDocumentStats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, StatsOutput{
		TotalDocuments: stats.TotalDocuments,
		TotalChunks:    stats.TotalChunks,
		FileTypes:      stats.FileTypes,
	}, nil
}

// handleProcess handles the process_document tool invocation.
// Ingestion failures are reported in the output rather than as tool errors.
func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, ProcessOutput{}, errors.New("path is required")
	}

	reports := s.ports.Knowledge.ProcessDocuments(ctx, []string{path}, nil)
	if len(reports) == 0 {
		return nil, ProcessOutput{Message: "nothing processed"}, nil
	}

	r := reports[0]
	switch {
	case !r.OK:
		s.log.Warn("process_document %s: %v", path, r.Err)
		return nil, ProcessOutput{Success: false, Message: describeFailure(r.Err)}, nil
	case r.Duplicate:
		return nil, ProcessOutput{Success: true, Message: "Document was already processed"}, nil
	default:
		return nil, ProcessOutput{Success: true, Message: chunkMessage(r.Chunks)}, nil
	}
}

func chunkMessage(n int) string {
	if n == 1 {
		return "Document processed into 1 chunk"
	}
	return fmt.Sprintf("Document processed into %d chunks", n)
}

// describeFailure turns an ingestion error into a short user-facing reason.
func describeFailure(err error) string {
	switch {
	case err == nil:
		return "Document could not be processed"
	case errors.Is(err, domain.ErrNotFound):
		return "File not found"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "Unsupported file type (expected PDF, DOCX or TXT)"
	case errors.Is(err, domain.ErrEmptyContent):
		return "No text could be extracted"
	case errors.Is(err, domain.ErrExtraction):
		return "Text extraction failed"
	default:
		return err.Error()
	}
}
