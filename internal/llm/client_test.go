package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

func anthropicServer(t *testing.T, handler func(w http.ResponseWriter, body map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(raw, &body))
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeAnthropicText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":   "msg_1",
		"type": "message",
		"content": []map[string]string{
			{"type": "text", "text": text},
		},
	})
}

func TestNewAnthropicClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid config", config: Config{APIKey: "test-key"}},
		{name: "missing API key", config: Config{}, wantErr: true},
		{
			name: "custom model and settings",
			config: Config{
				APIKey:      "test-key",
				Model:       "claude-3-5-haiku-latest",
				Temperature: 0.5,
				MaxTokens:   200,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newAnthropicClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	srv := anthropicServer(t, func(w http.ResponseWriter, body map[string]any) {
		assert.Equal(t, "be terse", body["system"])
		assert.InDelta(t, 200, body["max_tokens"], 0)
		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 1)
		writeAnthropicText(w, `{"ok":true}`)
	})

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), Request{System: "be terse", Prompt: "hi", MaxTokens: 200})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestAnthropicClient_ClientErrorIsPermanent(t *testing.T) {
	srv := anthropicServer(t, func(w http.ResponseWriter, _ map[string]any) {
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	})

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.False(t, common.IsRetryable(err))
	assert.Contains(t, err.Error(), "status 400")
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Messages []map[string]string `json:"messages"`
			Model    string              `json:"model"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "system", body.Messages[0]["role"])
			assert.Equal(t, "user", body.Messages[1]["role"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "done"}},
			},
		})
	}))
	defer srv.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := client.Complete(context.Background(), Request{System: "sys", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client, err := newOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.False(t, common.IsRetryable(err))
}

func TestNewClient_Providers(t *testing.T) {
	c, err := NewClient(Config{Provider: "anthropic", APIKey: "k"}, nil)
	require.NoError(t, err)
	c.Close()

	c, err = NewClient(Config{Provider: "OpenAI", APIKey: "k"}, nil)
	require.NoError(t, err)
	c.Close()

	_, err = NewClient(Config{Provider: "bard", APIKey: "k"}, nil)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = NewClient(Config{Provider: "anthropic"}, nil)
	require.Error(t, err)
}

func TestResilientClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := anthropicServer(t, func(w http.ResponseWriter, _ map[string]any) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeAnthropicText(w, "third time")
	})

	client, err := NewClient(Config{
		Provider:   "anthropic",
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	out, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "third time", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestResilientClient_DoesNotRetryPermanentErrors(t *testing.T) {
	var calls atomic.Int32
	srv := anthropicServer(t, func(w http.ResponseWriter, _ map[string]any) {
		calls.Add(1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	client, err := NewClient(Config{
		Provider:   "anthropic",
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 5,
		RetryDelay: time.Millisecond,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Complete(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResilientClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	stub := clientFunc(func(context.Context, Request) (string, error) {
		calls.Add(1)
		return "", transient(errors.New("connection reset"))
	})

	client := Wrap(stub, Config{MaxRetries: 2, RetryDelay: time.Millisecond}, nil)
	defer client.Close()

	_, err := client.Complete(context.Background(), Request{Prompt: "hi"})
	require.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, int32(2), calls.Load())
}

type clientFunc func(context.Context, Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
