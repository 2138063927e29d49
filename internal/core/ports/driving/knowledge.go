package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// KnowledgeBase is the collaborator-facing API over the document catalog.
type KnowledgeBase interface {
	// ProcessDocument ingests one file. It reports true when the file is
	// catalogued afterwards, including when identical content was already present.
	// The error explains a false result and is nil otherwise.
	ProcessDocument(ctx context.Context, path string, listener ProgressListener) (bool, error)

	// ProcessDocuments ingests files one after another.
	// A failing file never stops the batch.
	ProcessDocuments(ctx context.Context, paths []string, listener ProgressListener) []domain.IngestReport

	// SearchKnowledge returns up to maxResults chunks relevant to the query.
	// A non-positive maxResults uses the configured default.
	SearchKnowledge(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)

	// GetDocumentStats returns document and chunk totals.
	GetDocumentStats(ctx context.Context) (*domain.KnowledgeStats, error)

	// ListDocuments returns catalogued documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ClearKnowledgeBase removes every document and chunk.
	ClearKnowledgeBase(ctx context.Context) error
}
