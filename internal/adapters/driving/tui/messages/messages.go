// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// AskRequested is a command to ask the assistant a question.
type AskRequested struct {
	Question string
	Options  domain.AskOptions
}

// AnswerReceived carries the assistant's turn back to the model.
// Err is set only for invalid input; generation failures arrive as a fallback turn.
type AnswerReceived struct {
	Turn *domain.Turn
	Err  error
}

// StatsLoaded carries catalog totals for the status bar.
type StatsLoaded struct {
	Stats *domain.KnowledgeStats
	Err   error
}

// DocumentsLoaded carries the catalogued documents, newest first.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// ConversationCleared signals the conversation history was forgotten.
type ConversationCleared struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the question input and conversation transcript.
	ViewChat ViewType = iota
	// ViewDocuments lists catalogued documents.
	ViewDocuments
	// ViewHelp is the keybindings overlay.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
