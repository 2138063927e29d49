package driven

import "context"

// VectorIndex stores chunk embeddings for semantic similarity search.
// It is a derived, best-effort index: the catalog stays authoritative.
type VectorIndex interface {
	// Upsert inserts or replaces entries by key.
	Upsert(ctx context.Context, entries []VectorEntry) error

	// Search returns up to k entries nearest to the query vector, nearest first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Reset drops every entry.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorEntry is one semantic index entry.
type VectorEntry struct {
	// Key is "{document_id}_{chunk_index}".
	Key string

	DocumentID   int64
	DocumentName string
	ChunkIndex   int
	Content      string
	Embedding    []float32
}

// VectorHit is a similarity search result.
type VectorHit struct {
	Entry VectorEntry

	// Distance is the cosine distance (0 = identical direction).
	Distance float64
}
