// Package cli provides the askdocs command line, built on cobra.
// It is a driving adapter: every command talks to core services through driving ports.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
	"github.com/custodia-labs/askdocs-cli/internal/metrics"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Command annotations controlling what prepareServices builds.
const (
	skipServices = "askdocs/skip-services"
	settingsOnly = "askdocs/settings-only"
)

// Global flags.
var (
	verbose  bool
	jsonLogs bool
	dataDir  string
)

// Services wired by SetServices or the Builder.
var (
	knowledgeBase   driving.KnowledgeBase
	assistant       driving.Assistant
	searchService   driving.SearchService
	settingsService driving.SettingsService
	metricsRecorder *metrics.Recorder
	serverSettings  = domain.DefaultAppSettings().Server
	appLog          = logger.Nop()
)

// Services bundles everything the commands need.
type Services struct {
	Knowledge driving.KnowledgeBase
	Assistant driving.Assistant
	Search    driving.SearchService
	Settings  driving.SettingsService
	Metrics   *metrics.Recorder
	Server    domain.ServerSettings
	Logger    *logger.Logger
}

// Options carries the global flags into the Builder.
type Options struct {
	DataDir  string
	Verbose  bool
	JSONLogs bool
	LogOut   io.Writer

	// SettingsOnly asks for just the settings service, without opening storage.
	SettingsOnly bool
}

// Builder constructs services once flags are parsed.
// The returned cleanup releases databases and clients.
type Builder func(opts Options) (*Services, func(), error)

var (
	builder Builder
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask questions about your local documents",
	Long: `askdocs ingests PDF, DOCX and text files into a local catalog and answers
questions about them with a local or OpenAI-compatible language model.

Retrieval is semantic when an embedding model is reachable and falls back to
keyword matching otherwise.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for the catalog and config (default ~/.askdocs)")
}

// SetBuilder registers the function that builds services for commands.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs ready-made services, bypassing the Builder.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	knowledgeBase = s.Knowledge
	assistant = s.Assistant
	searchService = s.Search
	settingsService = s.Settings
	metricsRecorder = s.Metrics
	if s.Server.Addr != "" {
		serverSettings = s.Server
	}
	if s.Logger != nil {
		appLog = s.Logger
	}
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.Execute()
}

// prepareServices builds services on first use unless the command opts out.
func prepareServices(cmd *cobra.Command, _ []string) error {
	appLog.SetVerbose(verbose)
	if _, ok := cmd.Annotations[skipServices]; ok {
		return nil
	}
	_, onlySettings := cmd.Annotations[settingsOnly]
	if builder == nil || knowledgeBase != nil || (onlySettings && settingsService != nil) {
		return nil
	}

	services, release, err := builder(Options{
		DataDir:      dataDir,
		Verbose:      verbose,
		JSONLogs:     jsonLogs,
		LogOut:       cmd.ErrOrStderr(),
		SettingsOnly: onlySettings,
	})
	if err != nil {
		return fmt.Errorf("starting askdocs: %w", err)
	}
	SetServices(services)
	cleanup = release
	return nil
}

// requireKnowledge returns the knowledge base or a configuration error.
func requireKnowledge() (driving.KnowledgeBase, error) {
	if knowledgeBase == nil {
		return nil, errors.New("knowledge base not configured")
	}
	return knowledgeBase, nil
}
