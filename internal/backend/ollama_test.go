package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "llama2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 150, req.Options.NumPredict)
		assert.InDelta(t, 0.8, req.Options.Temperature, 1e-9)
		assert.True(t, strings.HasPrefix(req.Prompt, "stay in character"))
		assert.Contains(t, req.Prompt, "Human: what is land?")
		assert.True(t, strings.HasSuffix(req.Prompt, "Assistant:"))

		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: " Land was solid water. Curious? "})
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "llama2", &http.Client{Timeout: 5 * time.Second})

	got, err := a.Call(context.Background(), "what is land?", "stay in character", 150, 0.8)
	require.NoError(t, err)
	assert.Equal(t, "Land was solid water. Curious?", got)
}

func TestOllamaCallNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "llama2", srv.Client())

	_, err := a.Call(context.Background(), "hi", "sys", 150, 0.8)
	require.Error(t, err)

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, Ollama, be.Backend)
	assert.Contains(t, be.Reason, "unexpected status 500")
}

func TestOllamaCallEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "   "})
	}))
	defer srv.Close()

	a := NewOllama(srv.URL, "llama2", srv.Client())

	_, err := a.Call(context.Background(), "hi", "sys", 150, 0.8)

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "empty completion", be.Reason)
}

func TestOllamaCallConnectionRefused(t *testing.T) {
	a := NewOllama("http://127.0.0.1:1", "llama2", &http.Client{Timeout: time.Second})

	_, err := a.Call(context.Background(), "hi", "sys", 150, 0.8)

	var be *BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, Ollama, be.Backend)
}
