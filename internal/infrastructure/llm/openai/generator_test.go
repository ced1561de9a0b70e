package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completedResponse = `{
  "id": "resp_1",
  "object": "response",
  "created_at": 1700000000,
  "status": "completed",
  "model": "gpt-5-mini",
  "output": [{
    "type": "message",
    "id": "msg_1",
    "role": "assistant",
    "status": "completed",
    "content": [{"type": "output_text", "text": "## Summary\n- point ", "annotations": []}]
  }]
}`

func TestGenerateReturnsOutputText(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completedResponse))
	}))
	defer server.Close()

	gen := New("test-key", server.URL+"/")
	got, err := gen.Generate(context.Background(), "gpt-5-mini", "Document content:\nhello")
	require.NoError(t, err)

	assert.Equal(t, "## Summary\n- point ", got)
	assert.Equal(t, "gpt-5-mini", body["model"])
	assert.Equal(t, "Document content:\nhello", body["input"])
}

func TestGenerateDoesNotRetryFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer server.Close()

	_, err := New("test-key", server.URL+"/").Generate(context.Background(), "gpt-5-mini", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, int32(1), calls.Load())
}
