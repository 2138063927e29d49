package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdocs-cli/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// FallbackAnswer is returned in place of an answer when generation fails.
const FallbackAnswer = "Sorry, something went wrong while generating the answer."

// contextResults is how many retrieved chunks go into a prompt.
const contextResults = 3

// defaultPreamble is used when no prompt store is configured.
const defaultPreamble = `You are an assistant that answers questions using documents provided by the user.
Use only the information in the documents when it is available, and cite the file name.`

// AssistantService composes prompts from retrieved chunks and asks a generator.
type AssistantService struct {
	search    driving.SearchService
	knowledge driving.KnowledgeBase
	generator driven.Generator
	prompts   driven.PromptStore
	llm       domain.LLMSettings
	settings  domain.AssistantSettings
	metrics   driven.Metrics
	log       *logger.Logger
	now       func() time.Time

	mu      sync.RWMutex
	history []domain.Turn
}

// NewAssistantService creates a new assistant.
// The generator and prompts parameters are optional (can be nil); without a
// generator every question gets the fallback answer.
func NewAssistantService(
	search driving.SearchService,
	knowledge driving.KnowledgeBase,
	generator driven.Generator,
	prompts driven.PromptStore,
	llm domain.LLMSettings,
	settings domain.AssistantSettings,
	log *logger.Logger,
) *AssistantService {
	defaults := domain.DefaultAppSettings()
	if settings.MaxContextChars <= 0 {
		settings.MaxContextChars = defaults.Assistant.MaxContextChars
	}
	if llm.Timeout <= 0 {
		llm.Timeout = defaults.LLM.Timeout
	}
	return &AssistantService{
		search:    search,
		knowledge: knowledge,
		generator: generator,
		prompts:   prompts,
		llm:       llm,
		settings:  settings,
		metrics:   driven.NopMetrics{},
		log:       log.Component("assistant"),
		now:       time.Now,
	}
}

// SetMetrics sets the metrics recorder.
func (s *AssistantService) SetMetrics(m driven.Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Ask answers a question, optionally grounded in retrieved chunks.
func (s *AssistantService) Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	s.log.Section("Ask")

	var (
		contextBlock string
		sources      []string
	)
	if opts.UseContext {
		contextBlock, sources = s.retrieve(ctx, question)
	}

	prompt := s.composePrompt(question, contextBlock, opts)
	s.log.Debug("Prompt is %d characters", len(prompt))

	answer, err := s.generate(ctx, prompt)
	if err != nil {
		s.log.Error("Generation failed: %v", err)
		return &domain.Turn{
			ID:          uuid.NewString(),
			Prompt:      question,
			Answer:      FallbackAnswer,
			ContextUsed: contextBlock != "",
			Sources:     sources,
			AskedAt:     s.now(),
		}, nil
	}

	turn := domain.Turn{
		ID:          uuid.NewString(),
		Prompt:      question,
		Answer:      answer,
		ContextUsed: contextBlock != "",
		Sources:     sources,
		AskedAt:     s.now(),
	}

	s.mu.Lock()
	s.history = append(s.history, turn)
	s.mu.Unlock()

	return &turn, nil
}

// retrieve builds the document context block from the top search results.
// A search failure means no context, never a failed question.
func (s *AssistantService) retrieve(ctx context.Context, question string) (string, []string) {
	if s.search == nil {
		return "", nil
	}
	results, err := s.search.Search(ctx, question, contextResults)
	if err != nil {
		s.log.Warn("Context retrieval failed: %v", err)
		return "", nil
	}
	if len(results) > contextResults {
		results = results[:contextResults]
	}

	blocks := make([]string, 0, len(results))
	sources := make([]string, 0, len(results))
	seen := make(map[string]bool)
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("[%s]: %s", r.SourceName, r.Content))
		if !seen[r.SourceName] {
			seen[r.SourceName] = true
			sources = append(sources, r.SourceName)
		}
	}
	return truncateRunes(strings.Join(blocks, "\n\n"), s.settings.MaxContextChars), sources
}

// composePrompt assembles preamble, document context, extra context and the question.
func (s *AssistantService) composePrompt(question, contextBlock string, opts domain.AskOptions) string {
	var b strings.Builder
	b.WriteString(s.preamble(opts.UseContext))

	if contextBlock != "" {
		b.WriteString("\n\nDocument context:\n")
		b.WriteString(contextBlock)
	}
	if extra := strings.TrimSpace(opts.ExtraContext); extra != "" {
		b.WriteString("\n\nAdditional context:\n")
		b.WriteString(extra)
	}

	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

func (s *AssistantService) preamble(useContext bool) string {
	name := driven.PromptAnswer
	if !useContext {
		name = driven.PromptNoContext
	}
	if s.prompts != nil {
		p, err := s.prompts.Load(name)
		if err == nil && strings.TrimSpace(p) != "" {
			return strings.TrimSpace(p)
		}
		if err != nil {
			s.log.Warn("Loading prompt %q: %v", name, err)
		}
	}
	return defaultPreamble
}

// generate calls the generator under the configured timeout and maps failures.
func (s *AssistantService) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", domain.ErrLLMUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, s.llm.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.llm.MaxTokens,
		Temperature: s.llm.Temperature,
		TopP:        s.llm.TopP,
	})
	s.metrics.GenerationObserved(time.Since(start), err)

	switch {
	case err == nil:
		return strings.TrimSpace(answer), nil
	case errors.Is(err, domain.ErrGenerationTimeout), errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrGeneration):
		return "", err
	case errors.Is(err, context.DeadlineExceeded):
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationTimeout, err)
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
}

// History returns a copy of the conversation, oldest first.
func (s *AssistantService) History() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Turn, len(s.history))
	copy(out, s.history)
	return out
}

// ClearConversation forgets all turns.
func (s *AssistantService) ClearConversation() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Reset clears the knowledge base and the conversation.
func (s *AssistantService) Reset(ctx context.Context) error {
	if s.knowledge != nil {
		if err := s.knowledge.ClearKnowledgeBase(ctx); err != nil {
			return err
		}
	}
	s.ClearConversation()
	return nil
}

// Ready reports whether the generator answers a ping.
func (s *AssistantService) Ready(ctx context.Context) error {
	if s.generator == nil {
		return domain.ErrLLMUnavailable
	}
	if err := s.generator.Ping(ctx); err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// truncateRunes shortens s to at most limit bytes without splitting a rune.
func truncateRunes(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
