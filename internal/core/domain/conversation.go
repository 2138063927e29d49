package domain

import "time"

// Turn is one question/answer exchange with the assistant.
// Turns live for the process lifetime only.
type Turn struct {
	ID string

	// Prompt is the user's question as asked.
	Prompt string

	// Answer is the generated answer, or the fallback answer on failure.
	Answer string

	// ContextUsed reports whether retrieved chunks were included in the prompt.
	ContextUsed bool

	// Sources names the documents that supplied context, in rank order.
	Sources []string

	AskedAt time.Time
}

// AskOptions configures a single question.
type AskOptions struct {
	// UseContext includes retrieved chunks in the prompt.
	UseContext bool

	// ExtraContext is appended to the prompt verbatim when non-empty.
	ExtraContext string
}
