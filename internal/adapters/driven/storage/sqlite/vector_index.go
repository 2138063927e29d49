package sqlite

import (
	"container/heap"
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// SemanticFile is the local semantic index file name inside the base path.
const SemanticFile = "semantic.db"

// VectorIndex is a local semantic index stored in its own SQLite file.
// Search is an exact scan over all entries, ranked by cosine distance.
type VectorIndex struct {
	db   *sql.DB
	path string
}

var _ driven.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex opens or creates semantic.db in baseDir.
func NewVectorIndex(baseDir string) (*VectorIndex, error) {
	if baseDir == "" {
		baseDir = domain.DefaultBasePath()
	}

	db, dbPath, err := openDatabase(baseDir, SemanticFile)
	if err != nil {
		return nil, err
	}

	if err := migrate(db, migrations.SemanticFS()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &VectorIndex{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (v *VectorIndex) Path() string {
	return v.path
}

// Upsert inserts or replaces entries by key in one transaction.
func (v *VectorIndex) Upsert(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (key, document_id, document_name, chunk_index, content, embedding, norm)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document_id = excluded.document_id,
			document_name = excluded.document_name,
			chunk_index = excluded.chunk_index,
			content = excluded.content,
			embedding = excluded.embedding,
			norm = excluded.norm
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return fmt.Errorf("entry %s: empty embedding: %w", e.Key, domain.ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, e.Key, e.DocumentID, e.DocumentName, e.ChunkIndex,
			e.Content, float32SliceToBytes(e.Embedding), l2Norm(e.Embedding)); err != nil {
			return fmt.Errorf("saving entry %s: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search returns the k entries with the smallest cosine distance to query.
// Entries whose dimension differs from the query are skipped.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	queryNorm := l2Norm(query)
	if queryNorm == 0 {
		return nil, fmt.Errorf("zero query vector: %w", domain.ErrInvalidInput)
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT key, document_id, document_name, chunk_index, content, embedding, norm
		FROM entries
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	best := &hitHeap{}
	for rows.Next() {
		var e driven.VectorEntry
		var blob []byte
		var norm float64
		if err := rows.Scan(&e.Key, &e.DocumentID, &e.DocumentName, &e.ChunkIndex,
			&e.Content, &blob, &norm); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		vec := bytesToFloat32Slice(blob)
		if len(vec) != len(query) || norm == 0 {
			continue
		}

		hit := driven.VectorHit{Distance: 1 - dot(query, vec)/(queryNorm*norm)}
		if best.Len() < k {
			e.Embedding = vec
			hit.Entry = e
			heap.Push(best, hit)
		} else if hit.Distance < (*best)[0].Distance {
			e.Embedding = vec
			hit.Entry = e
			(*best)[0] = hit
			heap.Fix(best, 0)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	hits := make([]driven.VectorHit, best.Len())
	for i := len(hits) - 1; i >= 0; i-- {
		hits[i] = heap.Pop(best).(driven.VectorHit)
	}
	return hits, nil
}

// Reset drops every entry.
func (v *VectorIndex) Reset(ctx context.Context) error {
	if _, err := v.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	return nil
}

// Count returns the number of entries.
func (v *VectorIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := v.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// hitHeap is a max-heap on distance holding the current k nearest hits.
type hitHeap []driven.VectorHit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return h[i].Distance > h[j].Distance }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(driven.VectorHit)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func l2Norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
