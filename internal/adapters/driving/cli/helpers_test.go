package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/services"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
	"github.com/custodia-labs/askdocs-cli/internal/metrics"
	"github.com/custodia-labs/askdocs-cli/internal/normalisers"
	"github.com/custodia-labs/askdocs-cli/internal/postprocessors"
)

// stubGenerator answers every prompt with a fixed string.
type stubGenerator struct {
	answer  string
	err     error
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *stubGenerator) ModelName() string { return "stub" }

func (g *stubGenerator) Ping(_ context.Context) error { return g.err }

func (g *stubGenerator) Close() error { return nil }

type testServices struct {
	catalog   *memory.CatalogStore
	config    *memory.ConfigStore
	generator *stubGenerator
	knowledge *services.KnowledgeService
	assistant *services.AssistantService
	dir       string
}

// setupTestServices wires real services over in-memory stores into the
// package globals and returns a cleanup that restores them.
func setupTestServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	pipeline, err := registry.BuildPipeline(domain.DefaultPipelineConfig())
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	ts := &testServices{
		catalog:   memory.NewCatalogStore(),
		config:    memory.NewConfigStore(),
		generator: &stubGenerator{answer: "Paris is the capital of France."},
		dir:       t.TempDir(),
	}

	search := services.NewSearchService(ts.catalog, nil, nil, settings.Search, logger.Nop())
	ts.knowledge = services.NewKnowledgeService(ts.catalog, normalisers.NewDefaultRegistry(),
		pipeline, search, nil, nil, logger.Nop())
	ts.assistant = services.NewAssistantService(search, ts.knowledge, ts.generator, nil,
		settings.LLM, settings.Assistant, logger.Nop())

	SetServices(&Services{
		Knowledge: ts.knowledge,
		Assistant: ts.assistant,
		Search:    search,
		Settings:  services.NewSettingsService(ts.config, ts.dir),
		Metrics:   metrics.New(),
		Server:    settings.Server,
	})

	return ts, func() {
		knowledgeBase = nil
		assistant = nil
		searchService = nil
		settingsService = nil
		metricsRecorder = nil
		serverSettings = domain.DefaultAppSettings().Server
		appLog = logger.Nop()
		builder = nil
		cleanup = nil
		resetFlags()
	}
}

// resetFlags restores command flag variables that persist between runs.
func resetFlags() {
	verbose = false
	jsonLogs = false
	dataDir = ""
	addQuiet = false
	askNoContext = false
	askExtra = ""
	searchLimit = 0
	searchJSON = false
	statsJSON = false
	resetYes = false
	watchNewOnly = false
	serveAddr = ""
}

func (ts *testServices) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ts.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (ts *testServices) documents(t *testing.T) int {
	t.Helper()
	n, err := ts.catalog.CountDocuments(context.Background())
	require.NoError(t, err)
	return n
}

// runCommand executes the root command with args and returns stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCommandContext(context.Background(), t, args...)
}

// runCommandInput is runCommand with text fed to stdin.
func runCommandInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	return execute(context.Background(), input, args...)
}

func runCommandContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return execute(ctx, "", args...)
}

func execute(ctx context.Context, input string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

var errModelDown = errors.New("connection refused")
