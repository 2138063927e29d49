// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driving"
)

// inputHeight is the number of lines taken by the bordered question input.
const inputHeight = 3

// View is the chat view: a scrollable transcript above a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	viewport  viewport.Model
	assistant driving.Assistant
	ctx       context.Context

	// turns is the transcript shown on screen. Unlike the assistant's history
	// it also keeps fallback answers.
	turns   []domain.Turn
	pending string
	err     error
	width   int
	height  int
}

// NewView creates a chat view seeded with the assistant's existing history.
func NewView(s *styles.Styles, km *keymap.KeyMap, assistant driving.Assistant) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		viewport:  viewport.New(80, 20),
		assistant: assistant,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	if assistant != nil {
		v.turns = assistant.History()
	}
	v.refresh()
	return v
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.pending = ""
		if msg.Err != nil {
			v.err = msg.Err
		} else if msg.Turn != nil {
			v.err = nil
			v.turns = append(v.turns, *msg.Turn)
		}
		v.refresh()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// handleKeyMsg routes keys to the transcript, the input or a chat action.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Send):
		if v.pending != "" {
			return v, nil
		}
		question := v.input.Take()
		if question == "" {
			return v, nil
		}
		v.pending = question
		v.err = nil
		v.refresh()
		return v, v.ask(question, domain.AskOptions{UseContext: v.input.UseContext()})

	case key.Matches(msg, v.keymap.ToggleContext):
		v.input.ToggleContext()
		return v, nil

	case key.Matches(msg, v.keymap.ClearChat):
		if v.assistant != nil {
			v.assistant.ClearConversation()
		}
		v.turns = nil
		v.err = nil
		v.refresh()
		return v, func() tea.Msg { return messages.ConversationCleared{} }

	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down):
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask returns a command that asks the assistant on a background goroutine.
func (v *View) ask(question string, opts domain.AskOptions) tea.Cmd {
	assistant := v.assistant
	ctx := v.ctx
	return func() tea.Msg {
		if assistant == nil {
			return messages.AnswerReceived{Err: fmt.Errorf("assistant not available")}
		}
		turn, err := assistant.Ask(ctx, question, opts)
		return messages.AnswerReceived{Turn: turn, Err: err}
	}
}

// refresh re-renders the transcript and keeps the newest exchange in view.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

// renderTranscript renders every turn, then the pending question.
func (v *View) renderTranscript() string {
	if len(v.turns) == 0 && v.pending == "" {
		return v.styles.Muted.Render("Ask a question about your documents to get started.")
	}

	var b strings.Builder
	for i := range v.turns {
		b.WriteString(v.renderTurn(&v.turns[i]))
		b.WriteString("\n")
	}
	if v.pending != "" {
		b.WriteString(v.styles.Question.Render("You: "))
		b.WriteString(v.wrap(v.pending))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Thinking..."))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTurn renders one exchange with its sources.
func (v *View) renderTurn(turn *domain.Turn) string {
	var b strings.Builder
	b.WriteString(v.styles.Question.Render("You: "))
	b.WriteString(v.wrap(turn.Prompt))
	b.WriteString("\n")
	b.WriteString(v.styles.Answer.Render("Assistant: "))
	b.WriteString(v.wrap(turn.Answer))
	b.WriteString("\n")

	switch {
	case !turn.ContextUsed:
		b.WriteString(v.styles.Sources.Render("(answered without document context)"))
		b.WriteString("\n")
	case len(turn.Sources) > 0:
		b.WriteString(v.styles.Sources.Render("Sources: " + strings.Join(turn.Sources, ", ")))
		b.WriteString("\n")
	}
	return b.String()
}

// wrap wraps text to the transcript width minus the longest speaker label.
func (v *View) wrap(text string) string {
	width := v.viewport.Width - len("Assistant: ")
	if width < 10 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// View renders the transcript, any error and the input.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(v.input.View())
	return b.String()
}

// SetDimensions sizes the transcript to the space above the input.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	transcriptHeight := height - inputHeight - 1
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}
	v.viewport.Width = width
	v.viewport.Height = transcriptHeight
	v.input.SetWidth(width)
	v.refresh()
}

// Turns returns the exchanges shown in the transcript.
func (v *View) Turns() []domain.Turn {
	return v.turns
}

// Pending returns the question awaiting an answer, or "".
func (v *View) Pending() string {
	return v.pending
}

// Input returns the question input.
func (v *View) Input() *input.QuestionInput {
	return v.input
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Transcript returns the rendered transcript without viewport clipping.
func (v *View) Transcript() string {
	return v.renderTranscript()
}
