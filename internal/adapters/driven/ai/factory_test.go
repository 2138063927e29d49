package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
		assert.False(t, result.SemanticEnabled())
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.EmbeddingSettings{}, wantNil: true},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantNil: false,
		},
		{
			name: "openai provider is not an embedding provider",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.settings.Model, svc.ModelName())
			svc.Close()
		})
	}
}

func TestCreateGenerator(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.LLMSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{name: "nil settings returns nil", settings: nil, wantNil: true},
		{name: "unconfigured settings returns nil", settings: &domain.LLMSettings{}, wantNil: true},
		{
			name: "ollama provider creates generator",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "llama3.1:8b",
			},
		},
		{
			name: "openai provider creates generator",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "sk-test",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "openai provider without key errors",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "API key is required",
		},
		{
			name: "unknown provider returns nil (not configured)",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				Model:    "x",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := CreateGenerator(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, gen)
				return
			}
			require.NotNil(t, gen)
			assert.Equal(t, tt.settings.Model, gen.ModelName())
		})
	}
}

func TestCreateVectorIndex_Local(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.BasePath = t.TempDir()

	idx, err := CreateVectorIndex(&settings, logger.Nop())
	require.NoError(t, err)
	defer idx.Close()

	_, ok := idx.(*sqlite.VectorIndex)
	assert.True(t, ok)
}

func TestCreateVectorIndex_UnknownBackend(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Semantic.Backend = "faiss"

	_, err := CreateVectorIndex(&settings, logger.Nop())

	assert.Error(t, err)
}

func TestInitialise_SemanticDisabled(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.BasePath = t.TempDir()
	settings.Semantic.Enabled = false

	result := Initialise(&settings, logger.Nop())
	defer result.Close()

	assert.False(t, result.SemanticEnabled())
	assert.NotNil(t, result.Generator)
	assert.Empty(t, result.Warnings)
}

func TestInitialise_LocalSemantic(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.BasePath = t.TempDir()

	result := Initialise(&settings, logger.Nop())
	defer result.Close()

	assert.True(t, result.SemanticEnabled())
}

func TestInitialise_BadGeneratorIsWarning(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.BasePath = t.TempDir()
	settings.Semantic.Enabled = false
	settings.LLM.Provider = domain.AIProviderOpenAI
	settings.LLM.APIKey = ""

	result := Initialise(&settings, logger.Nop())
	defer result.Close()

	assert.Nil(t, result.Generator)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "answer generation disabled")
}

type pingGenerator struct {
	driven.Generator
	err error
}

func (p pingGenerator) Ping(context.Context) error { return p.err }

func TestValidateGenerator(t *testing.T) {
	assert.ErrorIs(t, ValidateGenerator(context.Background(), nil), domain.ErrLLMUnavailable)
	assert.NoError(t, ValidateGenerator(context.Background(), pingGenerator{}))

	boom := errors.New("boom")
	assert.ErrorIs(t, ValidateGenerator(context.Background(), pingGenerator{err: boom}), boom)
}

func TestValidateEmbedding_Nil(t *testing.T) {
	assert.ErrorIs(t, ValidateEmbedding(context.Background(), nil), domain.ErrEmbeddingUnavailable)
}
