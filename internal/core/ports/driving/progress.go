package driving

import "github.com/custodia-labs/askdocs-cli/internal/core/domain"

// ProgressListener receives ingestion progress synchronously on the ingesting goroutine.
// Implementations must return quickly. They cannot influence ingestion.
type ProgressListener interface {
	OnProgress(event domain.ProgressEvent)
}

// ProgressFunc adapts a plain function to ProgressListener.
type ProgressFunc func(event domain.ProgressEvent)

// OnProgress calls f(event).
func (f ProgressFunc) OnProgress(event domain.ProgressEvent) {
	f(event)
}
