package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrokCompleteSuccess(t *testing.T) {
	var captured grokRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  Infrastructure  "}},
			},
		})
	}))
	defer server.Close()

	client := NewGrokClientWithURL("test-key", server.URL)
	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "pick an option"},
		{Role: "user", Content: "1 or 2?"},
	}, Options{Temperature: 0.1, MaxTokens: 10})

	require.NoError(t, err)
	assert.Equal(t, "Infrastructure", reply)
	assert.Equal(t, defaultModel, captured.Model)
	assert.Equal(t, 10, captured.MaxTokens)
	assert.Len(t, captured.Messages, 2)
}

func TestGrokCompleteModelOverride(t *testing.T) {
	var captured grokRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer server.Close()

	client := NewGrokClientWithURL("test-key", server.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{Model: "custom-model"})

	require.NoError(t, err)
	assert.Equal(t, "custom-model", captured.Model)
}

func TestGrokCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key"},
		})
	}))
	defer server.Close()

	client := NewGrokClientWithURL("bad-key", server.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestGrokCompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGrokClientWithURL("test-key", server.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGrokCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewGrokClientWithURL("test-key", server.URL)
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
