package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdocs-cli/internal/core/domain"
	"github.com/custodia-labs/askdocs-cli/internal/core/ports/driven"
)

func TestNewGenerator_Defaults(t *testing.T) {
	g := NewGenerator(Config{})

	assert.Equal(t, DefaultModel, g.ModelName())
	assert.Equal(t, DefaultBaseURL, g.baseURL)
	assert.Equal(t, DefaultTimeout, g.client.Timeout)
	assert.NoError(t, g.Close())
}

func TestGenerate_Success(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "  Paris.  ", Done: true})
	}))
	defer server.Close()

	g := NewGenerator(Config{BaseURL: server.URL, Model: "test-model"})
	answer, err := g.Generate(context.Background(), "Capital of France?", driven.GenerateOptions{
		MaxTokens:   2000,
		Temperature: 0.7,
		TopP:        0.9,
	})

	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)
	assert.Equal(t, "test-model", got.Model)
	assert.False(t, got.Stream)
	require.NotNil(t, got.Options)
	assert.Equal(t, 2000, got.Options.NumPredict)
	require.NotNil(t, got.Options.Temperature)
	assert.InDelta(t, 0.7, *got.Options.Temperature, 1e-9)
	assert.InDelta(t, 0.9, got.Options.TopP, 1e-9)
}

func TestGenerate_ZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok"})
	}))
	defer server.Close()

	_, err := NewGenerator(Config{BaseURL: server.URL}).Generate(context.Background(), "hi", driven.GenerateOptions{})

	require.NoError(t, err)
	opts, ok := got["options"].(map[string]any)
	require.True(t, ok, "options must always be sent")
	temperature, ok := opts["temperature"]
	require.True(t, ok, "temperature 0 must not be omitted")
	assert.InDelta(t, 0.0, temperature, 0)
	assert.NotContains(t, opts, "num_predict")
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewGenerator(Config{BaseURL: server.URL}).Generate(context.Background(), "hi", driven.GenerateOptions{})

	require.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "model not found")
}

func TestGenerate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "late"})
	}))
	defer server.Close()

	g := NewGenerator(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := g.Generate(context.Background(), "hi", driven.GenerateOptions{})

	assert.ErrorIs(t, err, domain.ErrGenerationTimeout)
}

func TestGenerate_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewGenerator(Config{BaseURL: url}).Generate(context.Background(), "hi", driven.GenerateOptions{})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, NewGenerator(Config{BaseURL: server.URL}).Ping(context.Background()))
}

func TestPing_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewGenerator(Config{BaseURL: server.URL}).Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
