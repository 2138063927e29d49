package driven

import (
	"time"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Ingestion outcomes reported to Metrics.
const (
	OutcomeIngested  = "ingested"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Metrics records operational counters. Implementations must be safe for
// concurrent use. A nil Metrics is never passed to services; use NopMetrics.
type Metrics interface {
	DocumentProcessed(outcome string)
	ChunksRecorded(n int)
	SearchServed(path domain.RetrievalPath)
	SemanticDegraded()
	GenerationObserved(elapsed time.Duration, err error)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) DocumentProcessed(string)                {}
func (NopMetrics) ChunksRecorded(int)                      {}
func (NopMetrics) SearchServed(domain.RetrievalPath)       {}
func (NopMetrics) SemanticDegraded()                       {}
func (NopMetrics) GenerationObserved(time.Duration, error) {}
