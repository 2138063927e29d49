package driven

// Prompt names understood by PromptStore.
const (
	// PromptAnswer is the instruction preamble placed before document context
	// when composing an answer.
	PromptAnswer = "answer"

	// PromptNoContext is the preamble used when the caller opts out of retrieval.
	PromptNoContext = "answer_no_context"
)

// PromptStore loads user-customisable prompt templates.
type PromptStore interface {
	// Load returns the prompt with the given name, or an embedded default.
	Load(name string) (string, error)
}
