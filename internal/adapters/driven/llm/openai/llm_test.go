package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/idplens-cli/internal/core/ports/driven"
)

func TestNewLLMService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewLLMService(LLMConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("applies defaults", func(t *testing.T) {
		svc, err := NewLLMService(LLMConfig{APIKey: "test-key"})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, svc.baseURL)
		assert.Equal(t, DefaultLLMModel, svc.ModelName())
		assert.Equal(t, DefaultLLMTimeout, svc.client.Timeout)
	})

	t.Run("custom configuration wins", func(t *testing.T) {
		svc, err := NewLLMService(LLMConfig{
			APIKey:  "test-key",
			BaseURL: "http://localhost:8080/v1",
			Model:   "gpt-4o",
			Timeout: 5 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/v1", svc.baseURL)
		assert.Equal(t, "gpt-4o", svc.ModelName())
	})
}

func TestLLMService_Chat(t *testing.T) {
	t.Run("sends messages and returns reply", func(t *testing.T) {
		var got chatCompletionRequest
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"meeting_occurred\": true}"}}]}`))
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL + "/v1", Model: "gpt-3.5-turbo"})
		require.NoError(t, err)

		reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
			{Role: "system", Content: "You analyse development plans."},
			{Role: "user", Content: "Did a meeting happen?"},
		}, driven.ChatOptions{MaxTokens: 500, Temperature: 0.3})
		require.NoError(t, err)

		assert.Equal(t, `{"meeting_occurred": true}`, reply)
		assert.Equal(t, "Bearer test-key", auth)
		assert.Equal(t, "gpt-3.5-turbo", got.Model)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, 500, got.MaxTokens)
		assert.InDelta(t, 0.3, got.Temperature, 0.001)
	})

	t.Run("surfaces API error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid API key","type":"auth_error"}}`))
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "bad-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid API key")
	})

	t.Run("rejects empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response choices")
	})
}

func TestLLMService_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, []string{"END"}, req.Stop)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"done"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	reply, err := svc.Generate(context.Background(), "extract items", driven.GenerateOptions{
		MaxTokens: 100,
		StopWords: []string{"END"},
	})
	require.NoError(t, err)
	assert.Equal(t, "done", reply)
}

func TestLLMService_Ping(t *testing.T) {
	t.Run("ok on 200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			_, _ = w.Write([]byte(`{"data":[]}`))
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)
		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("reports non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("forbidden"))
		}))
		defer server.Close()

		svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)
		err = svc.Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})
}
