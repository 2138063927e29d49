package driving

import (
	"context"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// Assistant answers questions about the catalogued documents.
type Assistant interface {
	// Ask answers a question. Generation failures never surface as errors:
	// they produce the fallback answer. The error is reserved for invalid input.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (*domain.Turn, error)

	// History returns the conversation so far, oldest first.
	History() []domain.Turn

	// ClearConversation forgets all turns.
	ClearConversation()

	// Reset clears the knowledge base and the conversation.
	Reset(ctx context.Context) error

	// Ready reports whether the model server answers.
	Ready(ctx context.Context) error
}
