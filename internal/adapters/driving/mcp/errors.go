// Package mcp provides an MCP (Model Context Protocol) server adapter for askdocs.
// It lets AI assistants search, query and feed the local document knowledge base.
package mcp

import "errors"

// ErrMissingKnowledgeBase is returned when the knowledge base is not provided.
var ErrMissingKnowledgeBase = errors.New("mcp: knowledge base is required")
