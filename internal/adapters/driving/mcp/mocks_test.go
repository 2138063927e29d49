package mcp

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// mockKnowledgeBase is a mock implementation of driving.KnowledgeBase.
type mockKnowledgeBase struct {
	results   []domain.SearchResult
	stats     *domain.KnowledgeStats
	docs      []domain.Document
	reports   []domain.IngestReport
	err       error
	lastLimit int
	processed []string
}

func (m *mockKnowledgeBase) ProcessDocument(
	_ context.Context, path string, _ driving.ProgressListener,
) (bool, error) {
	m.processed = append(m.processed, path)
	return m.err == nil, m.err
}

func (m *mockKnowledgeBase) ProcessDocuments(
	_ context.Context, paths []string, _ driving.ProgressListener,
) []domain.IngestReport {
	m.processed = append(m.processed, paths...)
	return m.reports
}

func (m *mockKnowledgeBase) SearchKnowledge(
	_ context.Context, _ string, maxResults int,
) ([]domain.SearchResult, error) {
	m.lastLimit = maxResults
	return m.results, m.err
}

func (m *mockKnowledgeBase) GetDocumentStats(_ context.Context) (*domain.KnowledgeStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats == nil {
		return &domain.KnowledgeStats{FileTypes: map[string]int{}}, nil
	}
	return m.stats, nil
}

func (m *mockKnowledgeBase) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockKnowledgeBase) ClearKnowledgeBase(_ context.Context) error {
	return m.err
}

// mockAssistant is a mock implementation of driving.Assistant.
type mockAssistant struct {
	turn     *domain.Turn
	err      error
	lastOpts domain.AskOptions
}

func (m *mockAssistant) Ask(_ context.Context, question string, opts domain.AskOptions) (*domain.Turn, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.turn != nil {
		return m.turn, nil
	}
	return &domain.Turn{Prompt: question, Answer: "answer"}, nil
}

func (m *mockAssistant) History() []domain.Turn        { return nil }
func (m *mockAssistant) ClearConversation()            {}
func (m *mockAssistant) Reset(_ context.Context) error { return m.err }
func (m *mockAssistant) Ready(_ context.Context) error { return m.err }
