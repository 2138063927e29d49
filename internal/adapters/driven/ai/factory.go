// Package ai provides factory functions for creating embedding, generation
// and semantic index adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/askdocs-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
// Any of the services may be nil; callers degrade accordingly.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	Generator        driven.Generator
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues that disabled a service.
}

// SemanticEnabled reports whether both halves of the semantic path exist.
func (r *InitResult) SemanticEnabled() bool {
	return r.EmbeddingService != nil && r.VectorIndex != nil
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
	if r.Generator != nil {
		r.Generator.Close()
	}
}

// Initialise builds every AI adapter the settings ask for.
// Construction failures are recorded as warnings rather than returned,
// so the application still starts with keyword search only.
func Initialise(settings *domain.AppSettings, log *logger.Logger) *InitResult {
	result := &InitResult{}
	if settings == nil {
		return result
	}
	log = log.Component("ai")

	if settings.Semantic.Enabled {
		emb, err := CreateEmbeddingService(&settings.Embedding)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("embeddings disabled: %v", err))
		}
		idx, err := CreateVectorIndex(settings, log)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("semantic index disabled: %v", err))
		}
		if emb != nil && idx != nil {
			result.EmbeddingService = emb
			result.VectorIndex = idx
		} else {
			if emb != nil {
				emb.Close()
			}
			if idx != nil {
				idx.Close()
			}
		}
	}

	gen, err := CreateGenerator(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("answer generation disabled: %v", err))
	}
	result.Generator = gen

	for _, w := range result.Warnings {
		log.Warn("%s", w)
	}
	return result
}

// CreateEmbeddingService creates the embedding service for the configured provider.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		svc, err := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateGenerator creates the text generator for the configured provider.
// Returns nil if the provider is not configured.
func CreateGenerator(settings *domain.LLMSettings) (driven.Generator, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewGenerator(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil
	case domain.AIProviderOpenAI:
		gen, err := openaillm.NewGenerator(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorIndex opens the semantic index for the configured backend.
func CreateVectorIndex(settings *domain.AppSettings, log *logger.Logger) (driven.VectorIndex, error) {
	switch settings.Semantic.Backend {
	case domain.VectorBackendLocal, "":
		idx, err := sqlite.NewVectorIndex(settings.Storage.BasePath)
		if err != nil {
			return nil, err
		}
		return idx, nil
	case domain.VectorBackendQdrant:
		idx, err := qdrant.New(qdrant.Config{
			Host:       settings.Semantic.QdrantHost,
			Port:       settings.Semantic.QdrantPort,
			Collection: settings.Semantic.Collection,
		}, log)
		if err != nil {
			return nil, err
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", settings.Semantic.Backend)
	}
}

// ValidateGenerator pings the generator, bounding the wait.
func ValidateGenerator(ctx context.Context, gen driven.Generator) error {
	if gen == nil {
		return domain.ErrLLMUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return gen.Ping(ctx)
}

// ValidateEmbedding pings the embedding service, bounding the wait.
func ValidateEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		return domain.ErrEmbeddingUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
