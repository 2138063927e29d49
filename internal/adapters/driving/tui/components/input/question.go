// Package input provides the question input for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
)

// QuestionLimit caps the length of a typed question.
const QuestionLimit = 2000

// QuestionInput wraps a bubbles textinput with a label that shows
// whether document context will be used.
type QuestionInput struct {
	textinput  textinput.Model
	styles     *styles.Styles
	width      int
	useContext bool
}

// NewQuestionInput creates a focused question input with context enabled.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about your documents..."
	ti.Focus()
	ti.CharLimit = QuestionLimit
	ti.Width = 50

	return &QuestionInput{
		textinput:  ti,
		styles:     s,
		width:      50,
		useContext: true,
	}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the label and the input.
func (q *QuestionInput) View() string {
	label := "Ask: "
	if !q.useContext {
		label = "Ask (no context): "
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center,
		q.styles.Title.Render(label),
		q.styles.InputField.Render(q.textinput.View()),
	)
}

// Value returns the raw input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Take returns the trimmed question and clears the input.
// It returns "" and keeps the input untouched when only whitespace was typed.
func (q *QuestionInput) Take() string {
	question := strings.TrimSpace(q.textinput.Value())
	if question == "" {
		return ""
	}
	q.textinput.Reset()
	return question
}

// UseContext reports whether questions include document context.
func (q *QuestionInput) UseContext() bool {
	return q.useContext
}

// ToggleContext flips context use and returns the new value.
func (q *QuestionInput) ToggleContext() bool {
	q.useContext = !q.useContext
	return q.useContext
}

// Focus sets focus on the input.
func (q *QuestionInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus from the input.
func (q *QuestionInput) Blur() {
	q.textinput.Blur()
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	// Account for the label and border.
	inputWidth := width - 24
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}
