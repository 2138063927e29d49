package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/adapters/driving/tui/styles"
)

func TestNewQuestionInput(t *testing.T) {
	q := NewQuestionInput(styles.DefaultStyles())

	require.NotNil(t, q)
	assert.Equal(t, "", q.Value())
	assert.True(t, q.Focused())
	assert.True(t, q.UseContext())
}

func TestNewQuestionInput_NilStyles(t *testing.T) {
	q := NewQuestionInput(nil)

	require.NotNil(t, q)
	assert.NotNil(t, q.styles)
}

func TestQuestionInput_Init(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.NotNil(t, q.Init())
}

func TestQuestionInput_UpdateTypes(t *testing.T) {
	q := NewQuestionInput(nil)

	updated, _ := q.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})

	assert.Equal(t, q, updated)
	assert.Equal(t, "hi", q.Value())
}

func TestQuestionInput_View(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.Contains(t, q.View(), "Ask:")

	q.ToggleContext()
	assert.Contains(t, q.View(), "Ask (no context):")
}

func TestQuestionInput_Take(t *testing.T) {
	q := NewQuestionInput(nil)
	q.SetValue("  what do cats eat?  ")

	assert.Equal(t, "what do cats eat?", q.Take())
	assert.Equal(t, "", q.Value())
}

func TestQuestionInput_TakeBlank(t *testing.T) {
	q := NewQuestionInput(nil)
	q.SetValue("   ")

	assert.Equal(t, "", q.Take())
	assert.Equal(t, "   ", q.Value())
}

func TestQuestionInput_ToggleContext(t *testing.T) {
	q := NewQuestionInput(nil)

	assert.False(t, q.ToggleContext())
	assert.False(t, q.UseContext())
	assert.True(t, q.ToggleContext())
}

func TestQuestionInput_FocusBlur(t *testing.T) {
	q := NewQuestionInput(nil)

	q.Blur()
	assert.False(t, q.Focused())

	q.Focus()
	assert.True(t, q.Focused())
}

func TestQuestionInput_SetWidth(t *testing.T) {
	q := NewQuestionInput(nil)

	q.SetWidth(100)
	assert.Equal(t, 100, q.Width())
	assert.Equal(t, 76, q.textinput.Width)

	q.SetWidth(10)
	assert.Equal(t, 20, q.textinput.Width)
}
