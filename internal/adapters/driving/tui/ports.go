// Package tui provides an interactive terminal chat over the document catalog.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Knowledge provides stats and the document list.
	Knowledge driving.KnowledgeBase

	// Assistant answers questions and holds the conversation.
	Assistant driving.Assistant
}

// NewPorts creates a new Ports aggregate.
func NewPorts(knowledge driving.KnowledgeBase, assistant driving.Assistant) *Ports {
	return &Ports{
		Knowledge: knowledge,
		Assistant: assistant,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Knowledge == nil {
		return ErrMissingKnowledgeBase
	}
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	return nil
}
