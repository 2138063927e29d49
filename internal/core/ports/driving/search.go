package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// SearchService ranks stored chunks for a query.
type SearchService interface {
	// Search tries semantic retrieval first and falls back to keyword matching.
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}
