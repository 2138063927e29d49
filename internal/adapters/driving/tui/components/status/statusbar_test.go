package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
)

// wideBar returns a bar wide enough that nothing wraps.
func wideBar() *Bar {
	bar := NewBar(nil, nil)
	bar.SetWidth(300)
	return bar
}

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.Documents())
	assert.Equal(t, 0, bar.Chunks())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_SetStats(t *testing.T) {
	bar := wideBar()

	bar.SetStats(domain.KnowledgeStats{TotalDocuments: 3, TotalChunks: 12})

	assert.Equal(t, 3, bar.Documents())
	assert.Equal(t, 12, bar.Chunks())
	assert.Contains(t, bar.View(), "3 documents | 12 chunks")
}

func TestStatusBar_View_Singular(t *testing.T) {
	bar := wideBar()

	bar.SetStats(domain.KnowledgeStats{TotalDocuments: 1, TotalChunks: 1})

	assert.Contains(t, bar.View(), "1 document | 1 chunk ")
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		want    string
	}{
		{"ready", StateReady, "", "Ready"},
		{"ready with message", StateReady, "Conversation cleared", "Conversation cleared"},
		{"thinking", StateThinking, "", "Thinking..."},
		{"error", StateError, "", "Error"},
		{"error with message", StateError, "boom", "Error: boom"},
		{"documents", StateDocuments, "", "Documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := wideBar()
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestStatusBar_View_Hints(t *testing.T) {
	bar := wideBar()

	assert.Contains(t, bar.View(), "enter: ask")

	bar.SetState(StateDocuments)
	view := bar.View()
	assert.Contains(t, view, "esc: back")
	assert.NotContains(t, view, "enter: ask")
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetStats(domain.KnowledgeStats{TotalDocuments: 2, TotalChunks: 5})
	bar.SetState(StateError)
	bar.SetMessage("error message")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 2, bar.Documents())
}

func TestStatusBar_SetWidth(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetWidth(120)

	assert.Equal(t, 120, bar.Width())
}
