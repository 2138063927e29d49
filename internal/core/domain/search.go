package domain

// RetrievalPath names the strategy that produced a search result.
type RetrievalPath string

// Retrieval paths.
const (
	// PathSemantic results come from nearest-neighbour search over embeddings.
	PathSemantic RetrievalPath = "semantic"

	// PathKeyword results come from substring matching in the catalog.
	PathKeyword RetrievalPath = "keyword"
)

// KeywordScore is the fixed relevance assigned to keyword matches.
const KeywordScore = 0.5

// KeywordMode controls how the keyword path turns a query into patterns.
type KeywordMode string

// Keyword modes.
const (
	// KeywordModeSequence requires the query words to appear in order.
	KeywordModeSequence KeywordMode = "sequence"

	// KeywordModeAllTerms requires every query word to appear in any order.
	KeywordModeAllTerms KeywordMode = "all_terms"
)

// IsValid returns true if the keyword mode is recognised.
func (m KeywordMode) IsValid() bool {
	return m == KeywordModeSequence || m == KeywordModeAllTerms
}

// SearchResult is a single ranked chunk.
type SearchResult struct {
	// Content is the chunk text.
	Content string

	// SourceName is the name of the document the chunk belongs to.
	SourceName string

	// DocumentID identifies the document.
	DocumentID int64

	// ChunkIndex is the position of the chunk within the document.
	ChunkIndex int

	// RelevanceScore is higher for better matches.
	// Semantic hits score 1 - distance; keyword hits score KeywordScore.
	RelevanceScore float64

	// Path records which retrieval strategy produced the result.
	Path RetrievalPath
}

// PathOutcome is the result of attempting one retrieval path.
// A degraded outcome carries the reason and no results.
type PathOutcome struct {
	Results []SearchResult
	Reason  error
}

// Ok returns a successful outcome. Zero results is still success.
func Ok(results []SearchResult) PathOutcome {
	return PathOutcome{Results: results}
}

// Degraded returns an outcome signalling the path could not serve the query.
func Degraded(reason error) PathOutcome {
	if reason == nil {
		reason = ErrIndexUnavailable
	}
	return PathOutcome{Reason: reason}
}

// IsDegraded returns true if the path could not serve the query.
func (o PathOutcome) IsDegraded() bool {
	return o.Reason != nil
}
