package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var store driven.ConfigStore = NewConfigStore()

	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("llm.model", "llama3.1:8b"))
	require.NoError(t, store.Set("chunking.chunk_size", int64(1000)))
	require.NoError(t, store.Set("llm.top_p", 0.9))
	require.NoError(t, store.Set("semantic.enabled", true))

	assert.Equal(t, "llama3.1:8b", store.GetString("llm.model"))
	assert.Equal(t, 1000, store.GetInt("chunking.chunk_size"))
	assert.InDelta(t, 1000.0, store.GetFloat("chunking.chunk_size"), 1e-9)
	assert.InDelta(t, 0.9, store.GetFloat("llm.top_p"), 1e-9)
	assert.Equal(t, 0, store.GetInt("llm.top_p"))
	assert.True(t, store.GetBool("semantic.enabled"))
}

func TestConfigStore_MissingAndWrongType(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("name", 42))

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "", store.GetString("name"))
	assert.False(t, store.GetBool("name"))
	assert.Zero(t, store.GetFloat("missing"))
}
