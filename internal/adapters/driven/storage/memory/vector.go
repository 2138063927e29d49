package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
type VectorIndex struct {
	mu      sync.RWMutex
	entries map[string]driven.VectorEntry
}

// NewVectorIndex creates a new in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{entries: make(map[string]driven.VectorEntry)}
}

// Upsert stores entries by key.
func (v *VectorIndex) Upsert(_ context.Context, entries []driven.VectorEntry) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range entries {
		if len(e.Embedding) == 0 {
			return domain.ErrInvalidInput
		}
		v.entries[e.Key] = e
	}
	return nil
}

// Search returns the k nearest entries by cosine distance.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.entries))
	for _, e := range v.entries {
		if len(e.Embedding) != len(query) {
			continue
		}
		hits = append(hits, driven.VectorHit{Entry: e, Distance: 1 - cosine(query, e.Embedding)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Entry.Key < hits[j].Entry.Key
		}
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Reset drops every entry.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.entries = make(map[string]driven.VectorEntry)
	return nil
}

// Len returns the number of entries.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.entries)
}

// Close is a no-op.
func (v *VectorIndex) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
