package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultMaxResults is used when neither the caller nor settings give a limit.
const DefaultMaxResults = 5

// SearchService retrieves chunks semantically, degrading to keyword matching.
type SearchService struct {
	catalog          driven.CatalogStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	settings         domain.SearchSettings
	metrics          driven.Metrics
	log              *logger.Logger
}

// NewSearchService creates a new search service.
// The vectorIndex and embeddingService parameters are optional (can be nil).
func NewSearchService(
	catalog driven.CatalogStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	settings domain.SearchSettings,
	log *logger.Logger,
) *SearchService {
	if settings.MaxResults <= 0 {
		settings.MaxResults = DefaultMaxResults
	}
	if !settings.KeywordMode.IsValid() {
		settings.KeywordMode = domain.KeywordModeSequence
	}
	return &SearchService{
		catalog:          catalog,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		settings:         settings,
		metrics:          driven.NopMetrics{},
		log:              log.Component("search"),
	}
}

// SetMetrics sets the metrics recorder.
func (s *SearchService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Search returns up to maxResults chunks ranked by relevance.
// Semantic failures never surface; only keyword store errors are returned.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	s.log.Section("Search Execution")
	s.log.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		s.log.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	if maxResults <= 0 {
		maxResults = s.settings.MaxResults
	}

	outcome := s.semanticSearch(ctx, query, maxResults)
	if !outcome.IsDegraded() {
		s.log.Debug("Semantic search: %d results", len(outcome.Results))
		s.metrics.SearchServed(domain.PathSemantic)
		return outcome.Results, nil
	}

	if !errors.Is(outcome.Reason, domain.ErrEmbeddingUnavailable) {
		s.log.Warn("Semantic search unavailable, using keyword search: %v", outcome.Reason)
		s.metrics.SemanticDegraded()
	}

	results, err := s.keywordSearch(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	s.log.Debug("Keyword search: %d results", len(results))
	s.metrics.SearchServed(domain.PathKeyword)
	return results, nil
}

// semanticSearch embeds the query and asks the vector index for neighbours.
// Any failure yields a degraded outcome wrapping domain.ErrIndexUnavailable.
func (s *SearchService) semanticSearch(ctx context.Context, query string, limit int) domain.PathOutcome {
	if s.vectorIndex == nil || s.embeddingService == nil {
		return domain.Degraded(fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, domain.ErrEmbeddingUnavailable))
	}

	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return domain.Degraded(fmt.Errorf("%w: embed query: %v", domain.ErrIndexUnavailable, err))
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, limit)
	if err != nil {
		return domain.Degraded(fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err))
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Entry.Content == "" {
			return domain.Degraded(fmt.Errorf("%w: hit %q has no content", domain.ErrIndexUnavailable, hit.Entry.Key))
		}
		name := hit.Entry.DocumentName
		if name == "" {
			name = "Unknown"
		}
		results = append(results, domain.SearchResult{
			Content:        hit.Entry.Content,
			SourceName:     name,
			DocumentID:     hit.Entry.DocumentID,
			ChunkIndex:     hit.Entry.ChunkIndex,
			RelevanceScore: 1 - hit.Distance,
			Path:           domain.PathSemantic,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	return domain.Ok(results)
}

// keywordSearch matches lower-cased query words against stored chunks.
func (s *SearchService) keywordSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	patterns := KeywordPatterns(query, s.settings.KeywordMode)
	if len(patterns) == 0 {
		return []domain.SearchResult{}, nil
	}
	s.log.Debug("Keyword patterns: %q", patterns)

	matches, err := s.catalog.MatchChunks(ctx, patterns, limit)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = domain.SearchResult{
			Content:        m.Chunk.Content,
			SourceName:     m.DocumentName,
			DocumentID:     m.Chunk.DocumentID,
			ChunkIndex:     m.Chunk.Index,
			RelevanceScore: domain.KeywordScore,
			Path:           domain.PathKeyword,
		}
	}
	return results, nil
}

// KeywordPatterns builds LIKE patterns for a query.
// Sequence mode yields one pattern "%w1%w2%...%"; all-terms mode yields "%w%" per word.
// LIKE metacharacters in words are escaped with '\'.
func KeywordPatterns(query string, mode domain.KeywordMode) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = escapeLike(w)
	}

	if mode == domain.KeywordModeAllTerms {
		patterns := make([]string, len(words))
		for i, w := range words {
			patterns[i] = "%" + w + "%"
		}
		return patterns
	}
	return []string{"%" + strings.Join(words, "%") + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
