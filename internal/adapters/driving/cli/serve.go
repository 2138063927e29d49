package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base over HTTP",
	Long: `Starts a JSON HTTP API for adding documents, searching and asking questions.

Endpoints:
  POST   /documents      add files by path
  GET    /documents      list documents
  GET    /search?q=      search chunks
  POST   /ask            ask a question
  GET    /stats          document and chunk totals
  DELETE /knowledge      clear everything
  GET    /healthz        liveness and model availability
  GET    /metrics        Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	kb, err := requireKnowledge()
	if err != nil {
		return err
	}

	settings := serverSettings
	if serveAddr != "" {
		settings.Addr = serveAddr
	}

	server, err := httpapi.NewServer(httpapi.Config{
		Knowledge: kb,
		Assistant: assistant,
		Metrics:   metricsRecorder,
		Settings:  settings,
	}, appLog)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Listening on http://%s\n", server.Addr())
	return server.Run(ctx)
}
