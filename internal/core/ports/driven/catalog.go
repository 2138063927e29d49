package driven

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// CatalogStore persists documents and chunks.
// Backed by SQLite. It is the authoritative record of what was ingested.
type CatalogStore interface {
	// FindByFingerprint returns the document with the given fingerprint.
	// Returns domain.ErrNotFound if none exists.
	FindByFingerprint(ctx context.Context, fingerprint string) (*domain.Document, error)

	// RecordDocument inserts a document and returns its assigned ID.
	// Returns domain.ErrDuplicateFingerprint if the fingerprint is already recorded.
	RecordDocument(ctx context.Context, doc *domain.Document) (int64, error)

	// RecordChunks appends chunks to a document with indices 0..n-1
	// and updates the document's chunk count.
	RecordChunks(ctx context.Context, documentID int64, chunks []string) error

	// RecordIngestion records a document and all of its chunks in one transaction.
	// Either both are visible afterwards or neither is.
	RecordIngestion(ctx context.Context, doc *domain.Document, chunks []string) (*domain.Document, error)

	// CountDocuments returns the number of catalogued documents.
	CountDocuments(ctx context.Context) (int, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// CountByFormat returns the number of documents per format.
	CountByFormat(ctx context.Context) (map[string]int, error)

	// ListDocuments returns all documents, most recently ingested first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// MatchChunks returns chunks whose lower-cased content matches every
	// LIKE pattern, in insertion order, at most limit rows.
	MatchChunks(ctx context.Context, patterns []string, limit int) ([]ChunkMatch, error)

	// ClearAll removes every chunk and document in a single transaction.
	ClearAll(ctx context.Context) error

	// Close releases the database handle.
	Close() error
}

// ChunkMatch is a chunk joined with the name of its document.
type ChunkMatch struct {
	Chunk        domain.Chunk
	DocumentName string
}
