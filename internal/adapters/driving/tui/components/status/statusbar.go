// Package status provides the status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateThinking  State = "thinking"
	StateError     State = "error"
	StateDocuments State = "documents"
)

// Bar displays catalog totals, the application state and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	state     State
	message   string
	documents int
	chunks    int
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the counts followed by the state.
func (s *Bar) renderLeft() string {
	counts := s.styles.Normal.Render(fmt.Sprintf("%s | %s",
		plural(s.documents, "document"), plural(s.chunks, "chunk")))

	switch s.state {
	case StateThinking:
		return counts + "  " + s.styles.Warning.Render("Thinking...")
	case StateError:
		if s.message != "" {
			return counts + "  " + s.styles.Error.Render("Error: "+s.message)
		}
		return counts + "  " + s.styles.Error.Render("Error")
	case StateDocuments:
		return counts + "  " + s.styles.Muted.Render("Documents")
	case StateReady:
		if s.message != "" {
			return counts + "  " + s.styles.Success.Render(s.message)
		}
	}
	return counts + "  " + s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateDocuments {
		bindings = s.keymap.DocumentsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetStats updates the document and chunk counts.
func (s *Bar) SetStats(stats domain.KnowledgeStats) {
	s.documents = stats.TotalDocuments
	s.chunks = stats.TotalChunks
}

// Documents returns the displayed document count.
func (s *Bar) Documents() int {
	return s.documents
}

// Chunks returns the displayed chunk count.
func (s *Bar) Chunks() int {
	return s.chunks
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets state and message. Counts are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
