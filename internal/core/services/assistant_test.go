package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// stubSearch returns canned results.
type stubSearch struct {
	results []domain.SearchResult
	err     error
	limits  []int
}

func (s *stubSearch) Search(_ context.Context, _ string, maxResults int) ([]domain.SearchResult, error) {
	s.limits = append(s.limits, maxResults)
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

var testPrompts = mockPrompts{
	driven.PromptAnswer:    "Answer from the documents.",
	driven.PromptNoContext: "Answer from general knowledge.",
}

func newTestAssistant(search *stubSearch, gen driven.Generator, llm domain.LLMSettings) *AssistantService {
	return NewAssistantService(search, nil, gen, testPrompts, llm, domain.AssistantSettings{}, logger.Nop())
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := newTestAssistant(&stubSearch{}, &mockGenerator{answer: "x"}, domain.LLMSettings{})

	_, err := svc.Ask(context.Background(), "  ", domain.AskOptions{UseContext: true})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_ComposesPromptWithContext(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{
		{Content: "Cats purr.", SourceName: "cats.txt"},
		{Content: "Dogs bark.", SourceName: "dogs.txt"},
		{Content: "Cats sleep.", SourceName: "cats.txt"},
	}}
	gen := &mockGenerator{answer: "  They purr.  "}
	svc := newTestAssistant(search, gen, domain.LLMSettings{MaxTokens: 300, Temperature: 0.2, TopP: 0.8})

	turn, err := svc.Ask(context.Background(), "What do cats do?", domain.AskOptions{
		UseContext:   true,
		ExtraContext: "The user owns two cats.",
	})
	require.NoError(t, err)

	want := "Answer from the documents." +
		"\n\nDocument context:\n[cats.txt]: Cats purr.\n\n[dogs.txt]: Dogs bark.\n\n[cats.txt]: Cats sleep." +
		"\n\nAdditional context:\nThe user owns two cats." +
		"\n\nQuestion: What do cats do?" +
		"\n\nAnswer:"
	assert.Equal(t, want, gen.lastPrompt())
	assert.Equal(t, []int{contextResults}, search.limits)

	assert.Equal(t, "They purr.", turn.Answer)
	assert.Equal(t, "What do cats do?", turn.Prompt)
	assert.True(t, turn.ContextUsed)
	assert.Equal(t, []string{"cats.txt", "dogs.txt"}, turn.Sources)
	assert.NotEmpty(t, turn.ID)

	require.Len(t, gen.opts, 1)
	assert.Equal(t, driven.GenerateOptions{MaxTokens: 300, Temperature: 0.2, TopP: 0.8}, gen.opts[0])
}

func TestAsk_WithoutContext(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{{Content: "ignored", SourceName: "a.txt"}}}
	gen := &mockGenerator{answer: "Paris."}
	svc := newTestAssistant(search, gen, domain.LLMSettings{})

	turn, err := svc.Ask(context.Background(), "Capital of France?", domain.AskOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Answer from general knowledge.\n\nQuestion: Capital of France?\n\nAnswer:", gen.lastPrompt())
	assert.Empty(t, search.limits)
	assert.False(t, turn.ContextUsed)
	assert.Empty(t, turn.Sources)
}

func TestAsk_NoResultsMeansNoContextBlock(t *testing.T) {
	gen := &mockGenerator{answer: "I don't know."}
	svc := newTestAssistant(&stubSearch{}, gen, domain.LLMSettings{})

	turn, err := svc.Ask(context.Background(), "Anything?", domain.AskOptions{UseContext: true})
	require.NoError(t, err)

	assert.NotContains(t, gen.lastPrompt(), "Document context:")
	assert.False(t, turn.ContextUsed)
}

func TestAsk_SearchFailureStillAnswers(t *testing.T) {
	gen := &mockGenerator{answer: "ok"}
	svc := newTestAssistant(&stubSearch{err: errors.New("db gone")}, gen, domain.LLMSettings{})

	turn, err := svc.Ask(context.Background(), "Anything?", domain.AskOptions{UseContext: true})

	require.NoError(t, err)
	assert.Equal(t, "ok", turn.Answer)
	assert.False(t, turn.ContextUsed)
}

func TestAsk_TruncatesContext(t *testing.T) {
	search := &stubSearch{results: []domain.SearchResult{
		{Content: strings.Repeat("é", 100), SourceName: "a.txt"},
	}}
	gen := &mockGenerator{answer: "ok"}
	svc := NewAssistantService(search, nil, gen, testPrompts, domain.LLMSettings{},
		domain.AssistantSettings{MaxContextChars: 20}, logger.Nop())

	_, err := svc.Ask(context.Background(), "q", domain.AskOptions{UseContext: true})
	require.NoError(t, err)

	prompt := gen.lastPrompt()
	start := strings.Index(prompt, "Document context:\n") + len("Document context:\n")
	end := strings.Index(prompt, "\n\nQuestion:")
	block := prompt[start:end]
	assert.LessOrEqual(t, len(block), 20)
	assert.True(t, strings.HasPrefix(block, "[a.txt]: é"))
	assert.NotContains(t, block, "�")
}

func TestAsk_GenerationFailuresFallBack(t *testing.T) {
	tests := []struct {
		name string
		gen  driven.Generator
		llm  domain.LLMSettings
	}{
		{name: "no generator", gen: nil},
		{name: "server down", gen: &mockGenerator{err: domain.ErrLLMUnavailable}},
		{name: "bad response", gen: &mockGenerator{err: errors.New("malformed json")}},
		{name: "timeout", gen: &mockGenerator{answer: "late", delay: time.Second}, llm: domain.LLMSettings{Timeout: 20 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAssistant(&stubSearch{}, tt.gen, tt.llm)

			turn, err := svc.Ask(context.Background(), "Hello?", domain.AskOptions{})

			require.NoError(t, err)
			assert.Equal(t, FallbackAnswer, turn.Answer)
			assert.Equal(t, "Hello?", turn.Prompt)
			assert.Empty(t, svc.History())
		})
	}
}

func TestAsk_RecordsMetrics(t *testing.T) {
	metrics := newMockMetrics()
	svc := newTestAssistant(&stubSearch{}, &mockGenerator{answer: "a"}, domain.LLMSettings{})
	svc.SetMetrics(metrics)

	_, err := svc.Ask(context.Background(), "q", domain.AskOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.generations)
}

func TestAsk_PromptStoreFallback(t *testing.T) {
	gen := &mockGenerator{answer: "a"}
	svc := NewAssistantService(&stubSearch{}, nil, gen, mockPrompts{}, domain.LLMSettings{},
		domain.AssistantSettings{}, logger.Nop())

	_, err := svc.Ask(context.Background(), "q", domain.AskOptions{})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gen.lastPrompt(), defaultPreamble))
}

func TestHistory_AndClearConversation(t *testing.T) {
	svc := newTestAssistant(&stubSearch{}, &mockGenerator{answer: "a"}, domain.LLMSettings{})
	ctx := context.Background()

	_, err := svc.Ask(ctx, "first", domain.AskOptions{})
	require.NoError(t, err)
	_, err = svc.Ask(ctx, "second", domain.AskOptions{})
	require.NoError(t, err)

	history := svc.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Prompt)
	assert.Equal(t, "second", history[1].Prompt)

	// Callers get a copy.
	history[0].Prompt = "changed"
	assert.Equal(t, "first", svc.History()[0].Prompt)

	svc.ClearConversation()
	assert.Empty(t, svc.History())
}

func TestReset_ClearsKnowledgeAndHistory(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalogStore()
	seedCatalog(t, catalog, "a.txt", "content")
	search := NewSearchService(catalog, nil, nil, domain.SearchSettings{}, logger.Nop())
	knowledge := NewKnowledgeService(catalog, nil, nil, search, nil, nil, logger.Nop())
	svc := NewAssistantService(search, knowledge, &mockGenerator{answer: "a"}, testPrompts,
		domain.LLMSettings{}, domain.AssistantSettings{}, logger.Nop())

	_, err := svc.Ask(ctx, "q", domain.AskOptions{UseContext: true})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	assert.Empty(t, svc.History())
	docs, err := catalog.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, docs)
}

func TestReset_KeepsHistoryWhenClearFails(t *testing.T) {
	ctx := context.Background()
	catalog := failingCatalog{CatalogStore: memory.NewCatalogStore(), clearErr: errors.New("locked")}
	knowledge := NewKnowledgeService(catalog, nil, nil, nil, nil, nil, logger.Nop())
	svc := NewAssistantService(nil, knowledge, &mockGenerator{answer: "a"}, testPrompts,
		domain.LLMSettings{}, domain.AssistantSettings{}, logger.Nop())

	_, err := svc.Ask(ctx, "q", domain.AskOptions{})
	require.NoError(t, err)

	assert.Error(t, svc.Reset(ctx))
	assert.Len(t, svc.History(), 1)
}

func TestReady(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, newTestAssistant(nil, &mockGenerator{}, domain.LLMSettings{}).Ready(ctx))

	err := newTestAssistant(nil, &mockGenerator{pingErr: errors.New("refused")}, domain.LLMSettings{}).Ready(ctx)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	err = newTestAssistant(nil, nil, domain.LLMSettings{}).Ready(ctx)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
