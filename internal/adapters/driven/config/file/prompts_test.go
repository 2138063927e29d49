package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prompts")
	store := NewPromptStore(dir)

	_, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	for _, name := range []string{driven.PromptAnswer, driven.PromptNoContext} {
		_, err := os.Stat(filepath.Join(dir, name+".txt"))
		assert.NoError(t, err, name)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store := NewPromptStore(t.TempDir())

	prompt, err := store.Load(driven.PromptAnswer)

	require.NoError(t, err)
	want, _ := DefaultPrompt(driven.PromptAnswer)
	assert.Equal(t, want, prompt)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("  Answer like a pirate.\n"), 0600))
	store := NewPromptStore(dir)

	prompt, err := store.Load(driven.PromptAnswer)

	require.NoError(t, err)
	assert.Equal(t, "Answer like a pirate.", prompt)
}

func TestPromptStore_Load_EmptyFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("   \n"), 0600))
	store := NewPromptStore(dir)

	prompt, err := store.Load(driven.PromptAnswer)

	require.NoError(t, err)
	want, _ := DefaultPrompt(driven.PromptAnswer)
	assert.Equal(t, want, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store := NewPromptStore(t.TempDir())

	_, err := store.Load("nonexistent")

	assert.Error(t, err)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store := NewPromptStore(dir)

	_, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "answer.txt"), []byte("changed"), 0600))

	// Cached value survives until Reload
	cached, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", cached)

	store.Reload()
	fresh, err := store.Load(driven.PromptAnswer)
	require.NoError(t, err)
	assert.Equal(t, "changed", fresh)
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answer.txt")
	require.NoError(t, os.WriteFile(path, []byte("mine"), 0600))

	_, err := NewPromptStore(dir).Load(driven.PromptNoContext)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestPromptStore_InitFailureUsesDefaults(t *testing.T) {
	store := NewPromptStore("/dev/null/prompts")

	prompt, err := store.Load(driven.PromptAnswer)

	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store := NewPromptStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Load(driven.PromptAnswer)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
