package mcp

import (
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Knowledge ingests, searches and describes documents.
	Knowledge driving.KnowledgeBase

	// Assistant answers questions. Optional: without it the ask tool
	// reports that no model is configured.
	Assistant driving.Assistant
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Knowledge == nil {
		return ErrMissingKnowledgeBase
	}
	return nil
}
