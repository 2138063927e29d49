package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/fingerprint"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeBase = (*KnowledgeService)(nil)

// KnowledgeService ingests files into the catalog and the optional semantic index.
type KnowledgeService struct {
	catalog          driven.CatalogStore
	registry         driven.NormaliserRegistry
	pipeline         driven.PostProcessorPipeline
	search           driving.SearchService
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	metrics          driven.Metrics
	log              *logger.Logger
}

// NewKnowledgeService creates a new knowledge service.
// The vectorIndex and embeddingService are optional; when either is nil,
// ingestion only writes the catalog.
func NewKnowledgeService(
	catalog driven.CatalogStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	search driving.SearchService,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	log *logger.Logger,
) *KnowledgeService {
	return &KnowledgeService{
		catalog:          catalog,
		registry:         registry,
		pipeline:         pipeline,
		search:           search,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		metrics:          driven.NopMetrics{},
		log:              log.Component("knowledge"),
	}
}

// SetMetrics sets the metrics recorder.
func (s *KnowledgeService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// ProcessDocument ingests one file.
func (s *KnowledgeService) ProcessDocument(
	ctx context.Context, path string, listener driving.ProgressListener,
) (bool, error) {
	report := s.ingest(ctx, path, listener)
	return report.OK, report.Err
}

// ProcessDocuments ingests files in order. Per-file failures are reported, not returned.
func (s *KnowledgeService) ProcessDocuments(
	ctx context.Context, paths []string, listener driving.ProgressListener,
) []domain.IngestReport {
	reports := make([]domain.IngestReport, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			reports = append(reports, domain.IngestReport{Path: p, Err: err})
			continue
		}
		reports = append(reports, s.ingest(ctx, p, listener))
	}
	return reports
}

// ingest runs hashing, dedup, extraction, chunking, storing and indexing.
func (s *KnowledgeService) ingest(
	ctx context.Context, path string, listener driving.ProgressListener,
) domain.IngestReport {
	path = domain.ResolvePath(path)
	report := domain.IngestReport{Path: path}
	name := filepath.Base(path)

	fail := func(err error) domain.IngestReport {
		s.log.Error("Failed to process %s: %v", name, err)
		s.emit(listener, domain.ProgressEvent{Path: path, Stage: domain.StageFailed, Message: err.Error()})
		s.metrics.DocumentProcessed(driven.OutcomeFailed)
		report.Err = err
		return report
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fail(fmt.Errorf("%w: %s", domain.ErrNotFound, path))
		}
		return fail(fmt.Errorf("stat %s: %w", path, err))
	}
	if info.IsDir() {
		return fail(fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path))
	}

	// 1. HASH
	s.emit(listener, domain.ProgressEvent{Path: path, Stage: domain.StageHashing, Message: "Computing fingerprint"})
	fp, err := fingerprint.File(path)
	if err != nil {
		return fail(fmt.Errorf("fingerprint: %w", err))
	}

	// 2. DEDUP
	existing, err := s.catalog.FindByFingerprint(ctx, fp)
	switch {
	case err == nil:
		return s.skipped(listener, report, existing)
	case !errors.Is(err, domain.ErrNotFound):
		return fail(fmt.Errorf("lookup fingerprint: %w", err))
	}

	// 3. EXTRACT
	s.emit(listener, domain.ProgressEvent{Path: path, Stage: domain.StageExtracting, Message: "Extracting text"})
	format, text, err := s.registry.Extract(ctx, path)
	if err != nil {
		return fail(err)
	}

	// 4. CHUNK
	s.emit(listener, domain.ProgressEvent{Path: path, Stage: domain.StageChunking, Message: "Splitting text into chunks"})
	chunks, err := s.pipeline.Process(ctx, text)
	if err != nil {
		return fail(fmt.Errorf("chunk: %w", err))
	}
	if len(chunks) == 0 {
		return fail(fmt.Errorf("%s: %w", name, domain.ErrEmptyContent))
	}

	// 5. STORE
	s.emit(listener, domain.ProgressEvent{Path: path, Stage: domain.StageStoring, Message: "Saving to catalog"})
	doc, err := s.catalog.RecordIngestion(ctx, &domain.Document{
		Fingerprint: fp,
		Name:        name,
		Format:      format,
	}, chunks)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateFingerprint) {
			// Another ingestion of the same content won the race.
			return s.skipped(listener, report, nil)
		}
		return fail(fmt.Errorf("record ingestion: %w", err))
	}
	s.metrics.ChunksRecorded(len(chunks))

	// 6. INDEX (best effort)
	s.index(ctx, listener, path, doc, chunks)

	s.log.Info("Processed %s (%d chunks)", name, len(chunks))
	s.emit(listener, domain.ProgressEvent{
		Path:    path,
		Stage:   domain.StageDone,
		Message: fmt.Sprintf("Processed %s (%d chunks)", name, len(chunks)),
		Current: len(chunks),
		Total:   len(chunks),
	})
	s.metrics.DocumentProcessed(driven.OutcomeIngested)

	report.OK = true
	report.DocumentID = doc.ID
	report.Chunks = len(chunks)
	return report
}

func (s *KnowledgeService) skipped(
	listener driving.ProgressListener, report domain.IngestReport, existing *domain.Document,
) domain.IngestReport {
	name := filepath.Base(report.Path)
	s.log.Info("Document %s was already processed", name)
	s.emit(listener, domain.ProgressEvent{
		Path:    report.Path,
		Stage:   domain.StageSkipped,
		Message: fmt.Sprintf("%s was already processed", name),
	})
	s.metrics.DocumentProcessed(driven.OutcomeDuplicate)

	report.OK = true
	report.Duplicate = true
	if existing != nil {
		report.DocumentID = existing.ID
		report.Chunks = existing.ChunkCount
	}
	return report
}

// index writes chunk embeddings to the semantic index.
// Failures are logged; the catalog entry stays committed.
func (s *KnowledgeService) index(
	ctx context.Context, listener driving.ProgressListener, path string, doc *domain.Document, chunks []string,
) {
	if s.vectorIndex == nil || s.embeddingService == nil {
		return
	}

	s.emit(listener, domain.ProgressEvent{
		Path:    path,
		Stage:   domain.StageIndexing,
		Message: "Creating embeddings for search",
		Total:   len(chunks),
	})

	vectors, err := s.embeddingService.EmbedBatch(ctx, chunks)
	if err != nil {
		s.log.Warn("Skipping semantic index for %s: %v", doc.Name, err)
		s.metrics.SemanticDegraded()
		return
	}
	if len(vectors) != len(chunks) {
		s.log.Warn("Skipping semantic index for %s: got %d embeddings for %d chunks",
			doc.Name, len(vectors), len(chunks))
		s.metrics.SemanticDegraded()
		return
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, content := range chunks {
		entries[i] = driven.VectorEntry{
			Key:          EntryKey(doc.ID, i),
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			ChunkIndex:   i,
			Content:      content,
			Embedding:    vectors[i],
		}
	}

	if err := s.vectorIndex.Upsert(ctx, entries); err != nil {
		s.log.Warn("Skipping semantic index for %s: %v", doc.Name, err)
		s.metrics.SemanticDegraded()
		return
	}

	s.emit(listener, domain.ProgressEvent{
		Path:    path,
		Stage:   domain.StageIndexing,
		Message: "Embeddings stored",
		Current: len(chunks),
		Total:   len(chunks),
	})
}

// EntryKey is the semantic index key of a chunk: "{doc_id}_{chunk_index}".
func EntryKey(documentID int64, chunkIndex int) string {
	return fmt.Sprintf("%d_%d", documentID, chunkIndex)
}

// emit delivers an event. A panicking listener is logged and ignored.
func (s *KnowledgeService) emit(listener driving.ProgressListener, event domain.ProgressEvent) {
	if listener == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("Progress listener panicked: %v", r)
		}
	}()
	listener.OnProgress(event)
}

// SearchKnowledge delegates to the search service.
func (s *KnowledgeService) SearchKnowledge(
	ctx context.Context, query string, maxResults int,
) ([]domain.SearchResult, error) {
	return s.search.Search(ctx, query, maxResults)
}

// GetDocumentStats returns document and chunk totals.
func (s *KnowledgeService) GetDocumentStats(ctx context.Context) (*domain.KnowledgeStats, error) {
	docs, err := s.catalog.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	chunks, err := s.catalog.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	types, err := s.catalog.CountByFormat(ctx)
	if err != nil {
		return nil, fmt.Errorf("count formats: %w", err)
	}
	return &domain.KnowledgeStats{
		TotalDocuments: docs,
		TotalChunks:    chunks,
		FileTypes:      types,
	}, nil
}

// ListDocuments returns catalogued documents, newest first.
func (s *KnowledgeService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.catalog.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// ClearKnowledgeBase empties the catalog atomically, then the semantic index.
// A semantic index failure is logged and does not fail the call.
func (s *KnowledgeService) ClearKnowledgeBase(ctx context.Context) error {
	if err := s.catalog.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	if s.vectorIndex != nil {
		if err := s.vectorIndex.Reset(ctx); err != nil {
			s.log.Warn("Failed to clear semantic index: %v", err)
		}
	}
	s.log.Info("Knowledge base cleared")
	return nil
}
