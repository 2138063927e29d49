package tui

import "errors"

// ErrMissingKnowledgeBase is returned when the knowledge base is not provided.
var ErrMissingKnowledgeBase = errors.New("tui: knowledge base is required")

// ErrMissingAssistant is returned when the assistant is not provided.
var ErrMissingAssistant = errors.New("tui: assistant is required")

// ErrInvalidPorts is returned when no ports were given at all.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
