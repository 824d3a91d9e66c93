package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/llm"
)

func TestChatSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hello there"}},
			},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	res, err := c.Chat(context.Background(), llm.Request{
		Model:       "gpt-3.5-turbo",
		Messages:    []llm.Message{llm.System("sys"), llm.User("hi")},
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if res.Text != "hello there" {
		t.Fatalf("Chat() text = %q, want %q", res.Text, "hello there")
	}
	if res.Usage.TotalTokens != 13 {
		t.Fatalf("Chat() total tokens = %d, want 13", res.Usage.TotalTokens)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotBody.Temperature != 0.7 {
		t.Fatalf("request temperature = %v, want 0.7", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != llm.RoleSystem {
		t.Fatalf("request messages = %+v", gotBody.Messages)
	}
}

func TestChatAPIErrorIsUnrecognized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.Chat(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{llm.User("hi")}})
	if err == nil {
		t.Fatalf("Chat() expected error")
	}
	if !errors.Is(err, llm.ErrUnrecognized) {
		t.Fatalf("Chat() error = %v, want ErrUnrecognized", err)
	}
}

func TestChatConnectivityFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	c := New(srv.URL, "k")
	_, err := c.Chat(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{llm.User("hi")}})
	if err == nil {
		t.Fatalf("Chat() expected error")
	}
	if !errors.Is(err, llm.ErrConnectivity) {
		t.Fatalf("Chat() error = %v, want ErrConnectivity", err)
	}
}

func TestChatEmptyChoices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.Chat(context.Background(), llm.Request{Model: "m", Messages: []llm.Message{llm.User("hi")}})
	if !errors.Is(err, llm.ErrUnrecognized) {
		t.Fatalf("Chat() error = %v, want ErrUnrecognized", err)
	}
}
