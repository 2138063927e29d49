package driven

import "context"

// Generator produces answers from a local or remote model server.
// This is an optional service - when nil, questions receive the fallback answer.
//
// Implementations include:
//   - Ollama (llama3.1, mistral, ...)
//   - OpenAI-compatible servers (OpenAI, LM Studio, vLLM)
type Generator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the server is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// It is always sent, so zero reaches the server as zero.
	Temperature float64

	// TopP is the nucleus sampling threshold.
	TopP float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
