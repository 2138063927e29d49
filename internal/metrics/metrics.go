// Package metrics exposes Prometheus collectors for ingestion, retrieval,
// generation and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

const namespace = "askdocs"

// Ensure Recorder implements the interface.
var _ driven.Metrics = (*Recorder)(nil)

// Recorder records application metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	documents        *prometheus.CounterVec
	chunks           prometheus.Counter
	searches         *prometheus.CounterVec
	semanticDegraded prometheus.Counter
	generation       *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Documents processed, labelled by outcome.",
		}, []string{"outcome"}),
		chunks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_recorded_total",
			Help:      "Chunks written to the catalog.",
		}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches served, labelled by retrieval path.",
		}, []string{"path"}),
		semanticDegraded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "semantic_degraded_total",
			Help:      "Times the semantic path failed and keyword search took over.",
		}),
		generation: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Latency of answer generation calls.",
			Buckets:   []float64{.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, labelled by route and status.",
		}, []string{"route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 30},
		}, []string{"route"}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// DocumentProcessed counts one ingestion outcome.
func (r *Recorder) DocumentProcessed(outcome string) {
	r.documents.WithLabelValues(outcome).Inc()
}

// ChunksRecorded adds n stored chunks.
func (r *Recorder) ChunksRecorded(n int) {
	if n > 0 {
		r.chunks.Add(float64(n))
	}
}

// SearchServed counts a search answered by path.
func (r *Recorder) SearchServed(path domain.RetrievalPath) {
	r.searches.WithLabelValues(string(path)).Inc()
}

// SemanticDegraded counts a semantic failure.
func (r *Recorder) SemanticDegraded() {
	r.semanticDegraded.Inc()
}

// GenerationObserved records a generation call's latency.
func (r *Recorder) GenerationObserved(elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.generation.WithLabelValues(status).Observe(elapsed.Seconds())
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	Status int
}

// WriteHeader records the code and forwards it.
func (s *StatusRecorder) WriteHeader(code int) {
	s.Status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests and their latency. route names the label
// value for a request; it receives the request after the handler ran.
func (r *Recorder) Middleware(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &StatusRecorder{ResponseWriter: w, Status: http.StatusOK}

			next.ServeHTTP(rec, req)

			label := req.URL.Path
			if route != nil {
				if name := route(req); name != "" {
					label = name
				}
			}
			r.httpRequests.WithLabelValues(label, strconv.Itoa(rec.Status)).Inc()
			r.httpDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		})
	}
}
