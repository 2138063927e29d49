package domain

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 1000, s.Chunking.Size)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, 5, s.Search.MaxResults)
	assert.Equal(t, KeywordModeSequence, s.Search.KeywordMode)
	assert.True(t, s.Semantic.Enabled)
	assert.Equal(t, VectorBackendLocal, s.Semantic.Backend)

	assert.Equal(t, AIProviderOllama, s.LLM.Provider)
	assert.Equal(t, "llama3.1:8b", s.LLM.Model)
	assert.Equal(t, "http://localhost:11434", s.LLM.BaseURL)
	assert.InDelta(t, 0.7, s.LLM.Temperature, 1e-9)
	assert.InDelta(t, 0.9, s.LLM.TopP, 1e-9)
	assert.Equal(t, 2000, s.LLM.MaxTokens)
	assert.Equal(t, 120*time.Second, s.LLM.Timeout)
	assert.True(t, s.LLM.IsConfigured())
	assert.True(t, s.Embedding.IsConfigured())
}

func TestStorageSettings_Paths(t *testing.T) {
	s := StorageSettings{BasePath: "/var/askdocs"}

	assert.Equal(t, filepath.Join("/var/askdocs", "documents.db"), s.CatalogPath())
	assert.Equal(t, filepath.Join("/var/askdocs", "semantic.db"), s.SemanticPath())
}

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama", provider: AIProviderOllama, expected: true},
		{name: "openai", provider: AIProviderOpenAI, expected: true},
		{name: "empty", provider: AIProvider(""), expected: false},
		{name: "unknown", provider: AIProvider("mystery"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOpenAI, Model: "gpt-4o-mini"}.IsConfigured())
}

func TestPipelineConfigFor(t *testing.T) {
	cfg := PipelineConfigFor(ChunkingSettings{Size: 500, Overlap: 50})

	require.Equal(t, []string{"chunker"}, cfg.Processors)
	chunker := cfg.GetProcessorConfig("chunker")
	require.NotNil(t, chunker)
	assert.Equal(t, 500, chunker["chunk_size"])
	assert.Equal(t, 50, chunker["overlap"])
	assert.Nil(t, cfg.GetProcessorConfig("stemmer"))
}

func TestVectorBackend_IsValid(t *testing.T) {
	assert.True(t, VectorBackendLocal.IsValid())
	assert.True(t, VectorBackendQdrant.IsValid())
	assert.False(t, VectorBackend("chroma").IsValid())
}
