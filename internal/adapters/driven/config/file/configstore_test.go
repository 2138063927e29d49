package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, env map[string]string) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	store.lookup = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t, nil)

	require.NoError(t, store.Set("llm.model", "llama3.1:8b"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "llama3.1:8b", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t, nil)

	require.NoError(t, store.Set("chunking.chunk_size", 1000))
	require.NoError(t, store.Set("llm.temperature", 0.7))
	require.NoError(t, store.Set("semantic.enabled", true))
	require.NoError(t, store.Set("search.keyword_mode", "sequence"))

	assert.Equal(t, 1000, store.GetInt("chunking.chunk_size"))
	assert.InDelta(t, 0.7, store.GetFloat("llm.temperature"), 1e-9)
	assert.InDelta(t, 1000.0, store.GetFloat("chunking.chunk_size"), 1e-9)
	assert.True(t, store.GetBool("semantic.enabled"))
	assert.Equal(t, "sequence", store.GetString("search.keyword_mode"))

	// Missing and wrong-typed keys fall back to zero values
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, "", store.GetString("chunking.chunk_size"))
	assert.False(t, store.GetBool("search.keyword_mode"))
	assert.Zero(t, store.GetFloat("search.keyword_mode"))
}

func TestConfigStore_Persistence_NestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.model", "mistral"))
	require.NoError(t, store1.Set("llm.max_tokens", 512))
	require.NoError(t, store1.Set("semantic.enabled", false))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[semantic]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "mistral", store2.GetString("llm.model"))
	assert.Equal(t, 512, store2.GetInt("llm.max_tokens"))
	v, ok := store2.Get("semantic.enabled")
	assert.True(t, ok)
	assert.Equal(t, false, v)
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[chunking]
chunk_size = 500
overlap = 50

[search]
keyword_mode = "all_terms"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 500, store.GetInt("chunking.chunk_size"))
	assert.Equal(t, 50, store.GetInt("chunking.overlap"))
	assert.Equal(t, "all_terms", store.GetString("search.keyword_mode"))
}

func TestConfigStore_EnvOverride(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"ASKDOCS_LLM_MODEL":           "phi3",
		"ASKDOCS_CHUNKING_CHUNK_SIZE": "750",
		"ASKDOCS_LLM_TOP_P":           "0.5",
		"ASKDOCS_SEMANTIC_ENABLED":    "false",
	})
	require.NoError(t, store.Set("llm.model", "llama3.1:8b"))
	require.NoError(t, store.Set("semantic.enabled", true))

	assert.Equal(t, "phi3", store.GetString("llm.model"))
	assert.Equal(t, 750, store.GetInt("chunking.chunk_size"))
	assert.InDelta(t, 0.5, store.GetFloat("llm.top_p"), 1e-9)
	assert.False(t, store.GetBool("semantic.enabled"))

	// Overrides are never written back to disk
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "phi3")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "ASKDOCS_LLM_API_KEY", EnvKey("llm.api_key"))
	assert.Equal(t, "ASKDOCS_STORAGE_BASE_PATH", EnvKey("storage.base_path"))
}

func TestLoadEnvFiles(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ASKDOCS_TEST_LOADED=yes\n"), 0600))
	t.Setenv("ASKDOCS_TEST_LOADED", "")
	require.NoError(t, os.Unsetenv("ASKDOCS_TEST_LOADED"))

	require.NoError(t, LoadEnvFiles(envPath, filepath.Join(tmpDir, "missing.env")))

	assert.Equal(t, "yes", os.Getenv("ASKDOCS_TEST_LOADED"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# Just a comment\n\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store := newTestStore(t, nil)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store := newTestStore(t, nil)

	// Channels cannot be marshaled to TOML
	err := store.Set("channel", make(chan int))

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t, nil)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "section.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
