package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBasePath        = "storage.base_path"
	keyChunkSize       = "chunking.chunk_size"
	keyChunkOverlap    = "chunking.overlap"
	keyMaxResults      = "search.max_results"
	keyKeywordMode     = "search.keyword_mode"
	keySemanticEnabled = "semantic.enabled"
	keySemanticBackend = "semantic.backend"
	keyQdrantHost      = "semantic.qdrant_host"
	keyQdrantPort      = "semantic.qdrant_port"
	keyCollection      = "semantic.collection"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMTopP         = "llm.top_p"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyLLMTimeout      = "llm.timeout_seconds"
	keyMaxContextChars = "assistant.max_context_chars"
	keyServerAddr      = "server.addr"
	keyServerRate      = "server.rate_per_second"
	keyServerBurst     = "server.burst"
)

// SettingKeys returns every recognised config key, sorted.
func SettingKeys() []string {
	keys := []string{
		keyBasePath, keyChunkSize, keyChunkOverlap, keyMaxResults, keyKeywordMode,
		keySemanticEnabled, keySemanticBackend, keyQdrantHost, keyQdrantPort, keyCollection,
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedRPS,
		keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey, keyLLMTemperature,
		keyLLMTopP, keyLLMMaxTokens, keyLLMTimeout, keyMaxContextChars,
		keyServerAddr, keyServerRate, keyServerBurst,
	}
	sort.Strings(keys)
	return keys
}

// SettingsService materialises application settings from a config store.
type SettingsService struct {
	configStore driven.ConfigStore
	basePath    string
}

// NewSettingsService creates a new settings service.
// basePath overrides storage.base_path when non-empty (the --data-dir flag).
func NewSettingsService(configStore driven.ConfigStore, basePath string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		basePath:    basePath,
	}
}

// Get retrieves current application settings with defaults filled in.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			BasePath: s.getString(keyBasePath, d.Storage.BasePath),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, d.Chunking.Size),
			Overlap: s.getIntAllowZero(keyChunkOverlap, d.Chunking.Overlap),
		},
		Search: domain.SearchSettings{
			MaxResults:  s.getInt(keyMaxResults, d.Search.MaxResults),
			KeywordMode: domain.KeywordMode(s.getString(keyKeywordMode, string(d.Search.KeywordMode))),
		},
		Semantic: domain.SemanticSettings{
			Enabled:    s.getBool(keySemanticEnabled, d.Semantic.Enabled),
			Backend:    domain.VectorBackend(s.getString(keySemanticBackend, string(d.Semantic.Backend))),
			QdrantHost: s.getString(keyQdrantHost, d.Semantic.QdrantHost),
			QdrantPort: s.getInt(keyQdrantPort, d.Semantic.QdrantPort),
			Collection: s.getString(keyCollection, d.Semantic.Collection),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:           s.getString(keyEmbedBaseURL, d.Embedding.BaseURL),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, d.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:       s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:     s.getString(keyLLMBaseURL, d.LLM.BaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			TopP:        s.getFloat(keyLLMTopP, d.LLM.TopP),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
			Timeout:     time.Duration(s.getInt(keyLLMTimeout, int(d.LLM.Timeout/time.Second))) * time.Second,
		},
		Assistant: domain.AssistantSettings{
			MaxContextChars: s.getInt(keyMaxContextChars, d.Assistant.MaxContextChars),
		},
		Server: domain.ServerSettings{
			Addr:          s.getString(keyServerAddr, d.Server.Addr),
			RatePerSecond: s.getFloat(keyServerRate, d.Server.RatePerSecond),
			Burst:         s.getInt(keyServerBurst, d.Server.Burst),
		},
	}

	// An OpenAI provider with the Ollama default URL would never connect.
	if settings.LLM.Provider == domain.AIProviderOpenAI && s.configStore.GetString(keyLLMBaseURL) == "" {
		settings.LLM.BaseURL = ""
		if s.configStore.GetString(keyLLMModel) == "" {
			settings.LLM.Model = domain.DefaultLLMModels()[domain.AIProviderOpenAI]
		}
	}

	if s.basePath != "" {
		settings.Storage.BasePath = s.basePath
	}

	return settings, nil
}

// Set updates a single key and persists it.
func (s *SettingsService) Set(key string, value any) error {
	key = strings.ToLower(strings.TrimSpace(key))
	known := false
	for _, k := range SettingKeys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Validate checks the current settings for inconsistent values.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidInput)
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		return fmt.Errorf("%w: overlap must be between 0 and chunk_size", domain.ErrInvalidInput)
	}
	if !settings.Search.KeywordMode.IsValid() {
		return fmt.Errorf("%w: invalid keyword_mode %q", domain.ErrInvalidInput, settings.Search.KeywordMode)
	}
	if !settings.Semantic.Backend.IsValid() {
		return fmt.Errorf("%w: invalid semantic backend %q", domain.ErrInvalidInput, settings.Semantic.Backend)
	}
	if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" && settings.LLM.BaseURL == "" {
		return fmt.Errorf("%w: llm.api_key is required for the openai provider", domain.ErrInvalidInput)
	}
	if settings.Server.RatePerSecond < 0 || settings.Server.Burst < 0 {
		return fmt.Errorf("%w: server rate limits must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
