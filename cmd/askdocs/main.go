// Command askdocs answers questions about local documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/services"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
	"github.com/custodia-labs/askdocs-cli/internal/metrics"
	"github.com/custodia-labs/askdocs-cli/internal/normalisers"
	"github.com/custodia-labs/askdocs-cli/internal/postprocessors"
)

func main() {
	if err := file.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reading .env: %v\n", err)
	}

	cli.SetBuilder(build)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// build wires adapters into core services.
func build(opts cli.Options) (*cli.Services, func(), error) {
	configDir := opts.DataDir
	if configDir == "" {
		configDir = domain.DefaultBasePath()
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, opts.DataDir)

	log := logger.New(logger.Options{Output: opts.LogOut, Verbose: opts.Verbose, JSON: opts.JSONLogs})
	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService, Logger: log}, func() {}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(settings.Storage.BasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}

	aiServices := ai.Initialise(settings, log)
	for _, w := range aiServices.Warnings {
		log.Warn("%s", w)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(domain.PipelineConfigFor(settings.Chunking))
	if err != nil {
		aiServices.Close()
		store.Close()
		return nil, nil, fmt.Errorf("building chunking pipeline: %w", err)
	}

	catalog := store.CatalogStore()
	recorder := metrics.New()
	prompts := file.NewPromptStore(filepath.Join(settings.Storage.BasePath, "prompts"))

	search := services.NewSearchService(catalog, aiServices.VectorIndex, aiServices.EmbeddingService,
		settings.Search, log)
	search.SetMetrics(recorder)

	knowledge := services.NewKnowledgeService(catalog, normalisers.NewDefaultRegistry(), pipeline,
		search, aiServices.VectorIndex, aiServices.EmbeddingService, log)
	knowledge.SetMetrics(recorder)

	assistant := services.NewAssistantService(search, knowledge, aiServices.Generator, prompts,
		settings.LLM, settings.Assistant, log)
	assistant.SetMetrics(recorder)

	release := func() {
		aiServices.Close()
		if err := store.Close(); err != nil {
			log.Warn("Closing catalog: %v", err)
		}
	}

	return &cli.Services{
		Knowledge: knowledge,
		Assistant: assistant,
		Search:    search,
		Settings:  settingsService,
		Metrics:   recorder,
		Server:    settings.Server,
		Logger:    log,
	}, release, nil
}
