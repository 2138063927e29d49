package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedding turns text into a tiny bag-of-letters vector so that
// texts sharing words land close together.
type mockEmbedding struct {
	err      error
	batchErr error
	calls    int
}

func (m *mockEmbedding) vector(text string) []float32 {
	v := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			v[r-'a']++
		}
	}
	return v
}

func (m *mockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedding) ModelName() string           { return "mock-embed" }
func (m *mockEmbedding) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedding) Close() error                 { return nil }

// failingVectorIndex fails every call.
type failingVectorIndex struct{}

func (failingVectorIndex) Upsert(context.Context, []driven.VectorEntry) error {
	return errors.New("index offline")
}
func (failingVectorIndex) Search(context.Context, []float32, int) ([]driven.VectorHit, error) {
	return nil, errors.New("index offline")
}
func (failingVectorIndex) Reset(context.Context) error { return errors.New("index offline") }
func (failingVectorIndex) Close() error                { return nil }

// mockGenerator records prompts and replays a canned answer.
type mockGenerator struct {
	mu      sync.Mutex
	answer  string
	err     error
	delay   time.Duration
	pingErr error
	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockGenerator) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

func (m *mockGenerator) ModelName() string            { return "mock-llm" }
func (m *mockGenerator) Ping(_ context.Context) error { return m.pingErr }
func (m *mockGenerator) Close() error                 { return nil }

// mockPrompts serves fixed prompts.
type mockPrompts map[string]string

func (m mockPrompts) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

// mockMetrics counts calls.
type mockMetrics struct {
	mu          sync.Mutex
	outcomes    map[string]int
	chunks      int
	paths       map[domain.RetrievalPath]int
	degraded    int
	generations int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{outcomes: map[string]int{}, paths: map[domain.RetrievalPath]int{}}
}

func (m *mockMetrics) DocumentProcessed(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *mockMetrics) ChunksRecorded(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks += n
}

func (m *mockMetrics) SearchServed(path domain.RetrievalPath) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[path]++
}

func (m *mockMetrics) SemanticDegraded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded++
}

func (m *mockMetrics) GenerationObserved(time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations++
}

// failingCatalog wraps a catalog and fails selected calls.
type failingCatalog struct {
	driven.CatalogStore
	matchErr error
	clearErr error
}

func (f failingCatalog) MatchChunks(ctx context.Context, patterns []string, limit int) ([]driven.ChunkMatch, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.CatalogStore.MatchChunks(ctx, patterns, limit)
}

func (f failingCatalog) ClearAll(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.CatalogStore.ClearAll(ctx)
}
