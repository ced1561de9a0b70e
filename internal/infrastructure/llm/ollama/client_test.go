package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSendsModelAndPrompt(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"response":"  ## Summary\n- point\n"}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", 5*time.Second)
	got, err := client.Generate(context.Background(), "llama3.1:8b", "Document content:\nhello")
	require.NoError(t, err)

	assert.Equal(t, "  ## Summary\n- point\n", got, "response must not be post-processed")
	assert.Equal(t, "llama3.1:8b", payload["model"])
	assert.Equal(t, "Document content:\nhello", payload["prompt"])
	assert.Equal(t, false, payload["stream"])
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, 5*time.Second).Generate(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestGenerateRejectsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL, 5*time.Second).Generate(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode generate response")
}
