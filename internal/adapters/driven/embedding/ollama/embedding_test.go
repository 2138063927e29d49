package ollama

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

type fakeEmbedder struct {
	calls   [][]string
	err     error
	emptyOn string
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, []string{text})
	if f.err != nil {
		return nil, f.err
	}
	if text == f.emptyOn {
		return nil, nil
	}
	return []float32{float32(len(text)), 1}, nil
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s, err := NewEmbeddingService(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultBatchSize, s.batchSize)
	assert.Nil(t, s.limiter)
	assert.NoError(t, s.Close())
}

func TestEmbed(t *testing.T) {
	fake := &fakeEmbedder{}
	s := newWithEmbedder(fake, Config{Model: "m"})

	vec, err := s.Embed(context.Background(), "cats")

	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, vec)
}

func TestEmbed_Error(t *testing.T) {
	s := newWithEmbedder(&fakeEmbedder{err: errors.New("connection refused")}, Config{})

	_, err := s.Embed(context.Background(), "cats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEmbed_EmptyVector(t *testing.T) {
	s := newWithEmbedder(&fakeEmbedder{emptyOn: "blank"}, Config{})

	_, err := s.Embed(context.Background(), "blank")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestEmbedBatch_SplitsIntoBatches(t *testing.T) {
	fake := &fakeEmbedder{}
	s := newWithEmbedder(fake, Config{BatchSize: 2})

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})

	require.NoError(t, err)
	require.Len(t, vecs, 5)
	assert.Len(t, fake.calls, 3)
	assert.Equal(t, []float32{5, 1}, vecs[4])
}

func TestEmbedBatch_Empty(t *testing.T) {
	fake := &fakeEmbedder{}
	s := newWithEmbedder(fake, Config{})

	vecs, err := s.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, vecs)
	assert.Empty(t, fake.calls)
}

func TestPing_Unavailable(t *testing.T) {
	s := newWithEmbedder(&fakeEmbedder{err: errors.New("dial tcp: refused")}, Config{})

	err := s.Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRateLimit_HonoursContext(t *testing.T) {
	s := newWithEmbedder(&fakeEmbedder{}, Config{RequestsPerSecond: 0.001})

	// The first call consumes the only token.
	_, err := s.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = s.Embed(ctx, "second")

	assert.Error(t, err)
}
