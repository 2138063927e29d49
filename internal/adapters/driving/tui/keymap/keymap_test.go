package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		key     string
	}{
		{"quit", km.Quit, "ctrl+c"},
		{"help", km.Help, "f1"},
		{"send", km.Send, "enter"},
		{"toggle context", km.ToggleContext, "ctrl+t"},
		{"clear chat", km.ClearChat, "ctrl+l"},
		{"documents", km.Documents, "ctrl+d"},
		{"back", km.Back, "esc"},
		{"up", km.Up, "pgup"},
		{"down", km.Down, "pgdown"},
		{"reload", km.Reload, "ctrl+r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.binding.Keys(), tt.key)
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_NoPlainLetters(t *testing.T) {
	km := DefaultKeyMap()

	for _, group := range km.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				assert.Greater(t, len(k), 1, "binding %q would swallow typed text", k)
			}
		}
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	assert.Len(t, help, 4)
	assert.Equal(t, km.Send.Keys(), help[0].Keys())
}

func TestKeyMap_DocumentsHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.DocumentsHelp()

	assert.Len(t, help, 4)
	assert.Equal(t, km.Back.Keys(), help[3].Keys())
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FullHelp()

	assert.Len(t, help, 3)
	for _, group := range help {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("pgdown", km.Down))
	assert.False(t, Matches("q", km.Quit))
	assert.False(t, Matches("", km.Send))
}
