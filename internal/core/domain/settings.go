package domain

import (
	"os"
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a model server for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any server speaking the OpenAI chat completions API
	// (OpenAI, LM Studio, vLLM, llama.cpp server).
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// IsLocal returns true if this provider runs locally by default.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible API"
	default:
		return unknownDescription
	}
}

// VectorBackend selects where semantic index entries are stored.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendLocal stores vectors in a sqlite file next to the catalog.
	VectorBackendLocal VectorBackend = "local"

	// VectorBackendQdrant stores vectors in a Qdrant collection.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendLocal || b == VectorBackendQdrant
}

// StorageSettings locates persisted state.
type StorageSettings struct {
	// BasePath is the directory holding documents.db and semantic.db.
	BasePath string
}

// CatalogPath returns the relational catalog file path.
func (s StorageSettings) CatalogPath() string {
	return filepath.Join(s.BasePath, "documents.db")
}

// SemanticPath returns the local semantic index file path.
func (s StorageSettings) SemanticPath() string {
	return filepath.Join(s.BasePath, "semantic.db")
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// Size is the maximum chunk length in bytes.
	Size int

	// Overlap is how many bytes consecutive chunks share.
	Overlap int
}

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// MaxResults is used when a caller passes zero or a negative limit.
	MaxResults int

	// KeywordMode controls the fallback matcher.
	KeywordMode KeywordMode
}

// SemanticSettings configures the optional semantic index.
type SemanticSettings struct {
	// Enabled turns the semantic path on. When off, retrieval is keyword only.
	Enabled bool

	// Backend selects the vector store.
	Backend VectorBackend

	// QdrantHost and QdrantPort address the Qdrant gRPC endpoint.
	QdrantHost string
	QdrantPort int

	// Collection is the Qdrant collection name.
	Collection string
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// RequestsPerSecond throttles embedding calls. Zero means unlimited.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider == AIProviderOllama && e.Model != ""
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible servers that need one).
	APIKey string

	Temperature float64
	TopP        float64
	MaxTokens   int

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.Model != ""
}

// AssistantSettings configures prompt composition.
type AssistantSettings struct {
	// MaxContextChars bounds the document context block in the prompt.
	MaxContextChars int
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr string

	// RatePerSecond and Burst limit requests per client IP.
	RatePerSecond float64
	Burst         int
}

// AppSettings holds all application configuration.
type AppSettings struct {
	Storage   StorageSettings
	Chunking  ChunkingSettings
	Search    SearchSettings
	Semantic  SemanticSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Assistant AssistantSettings
	Server    ServerSettings
}

// DefaultBasePath returns ~/.askdocs, or .askdocs when the home directory is unknown.
func DefaultBasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".askdocs"
	}
	return filepath.Join(home, ".askdocs")
}

// DefaultAppSettings returns settings with sensible defaults.
// Everything points at a local Ollama; if it is not running, retrieval
// degrades to keyword matching and answers fall back to an apology.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{BasePath: DefaultBasePath()},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Search: SearchSettings{
			MaxResults:  5,
			KeywordMode: KeywordModeSequence,
		},
		Semantic: SemanticSettings{
			Enabled:    true,
			Backend:    VectorBackendLocal,
			QdrantHost: "localhost",
			QdrantPort: 6334,
			Collection: "documents",
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},
		LLM: LLMSettings{
			Provider:    AIProviderOllama,
			Model:       "llama3.1:8b",
			BaseURL:     "http://localhost:11434",
			Temperature: 0.7,
			TopP:        0.9,
			MaxTokens:   2000,
			Timeout:     120 * time.Second,
		},
		Assistant: AssistantSettings{MaxContextChars: 6000},
		Server: ServerSettings{
			Addr:          "127.0.0.1:8080",
			RatePerSecond: 5,
			Burst:         10,
		},
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.1:8b",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so new processors need no struct changes.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration keyed by processor name.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfigFor builds the pipeline configuration from chunking settings.
func PipelineConfigFor(c ChunkingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": c.Size,
				"overlap":    c.Overlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFor(DefaultAppSettings().Chunking)
}
