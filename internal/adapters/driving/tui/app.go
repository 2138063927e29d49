package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/views/documents"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	chatView      *chat.View
	documentsView *documents.View
	statusBar     *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when the help overlay closes.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		help:          help.New(),
		chatView:      chat.NewView(s, km, ports.Assistant),
		documentsView: documents.NewView(s, ports.Knowledge),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("askdocs - Document Q&A"),
		a.chatView.Init(),
		a.loadStats(),
	)
}

// loadStats returns a command that fetches catalog totals.
func (a *App) loadStats() tea.Cmd {
	knowledge := a.ports.Knowledge
	ctx := a.ctx
	return func() tea.Msg {
		stats, err := knowledge.GetDocumentStats(ctx)
		return messages.StatsLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else {
			a.statusBar.Clear()
		}
		return a, cmd

	case messages.StatsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else if msg.Stats != nil {
			a.statusBar.SetStats(*msg.Stats)
		}
		return a, nil

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ConversationCleared:
		a.statusBar.Clear()
		a.statusBar.SetMessage("Conversation cleared")
		return a, nil

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewHelp:
		// Help is static
	}
	return a, cmd
}

// handleKeyMsg applies global bindings, then forwards to the active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			return a, a.switchTo(a.previousView)
		}
		a.previousView = a.currentView
		a.currentView = messages.ViewHelp
		return a, nil

	case key.Matches(msg, a.keymap.Reload):
		cmds := []tea.Cmd{a.loadStats()}
		if a.currentView == messages.ViewDocuments {
			cmds = append(cmds, a.documentsView.Load())
		}
		return a, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewChat:
		if key.Matches(msg, a.keymap.Documents) {
			return a, a.switchTo(messages.ViewDocuments)
		}
		a.chatView, cmd = a.chatView.Update(msg)
		if a.chatView.Pending() != "" {
			a.statusBar.SetState(status.StateThinking)
			a.statusBar.SetMessage("")
		}
		return a, cmd

	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ViewHelp:
		if key.Matches(msg, a.keymap.Back) {
			return a, a.switchTo(a.previousView)
		}
	}
	return a, nil
}

// switchTo activates a view and returns its start-up command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewDocuments:
		a.statusBar.SetState(status.StateDocuments)
		return tea.Batch(a.documentsView.Load(), a.loadStats())
	case messages.ViewChat:
		if a.chatView.Pending() != "" {
			a.statusBar.SetState(status.StateThinking)
		} else {
			a.statusBar.Clear()
		}
		return a.loadStats()
	case messages.ViewHelp:
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the keybindings overlay.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("Questions use your documents as context unless toggled off."))
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Documents returns the documents view.
func (a *App) Documents() *documents.View {
	return a.documentsView
}

// SetDimensions sizes every view, leaving one line for the status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.help.Width = width
	a.statusBar.SetWidth(width)
	a.chatView.SetDimensions(width, height-1)
	a.documentsView.SetDimensions(width, height-1)
}
