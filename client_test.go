package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type mockMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mockChoice struct {
	Index        int         `json:"index"`
	Message      mockMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type mockUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type mockCompletion struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []mockChoice `json:"choices"`
	Usage   mockUsage    `json:"usage"`
}

func newMockCompletion(content string) mockCompletion {
	return mockCompletion{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-4",
		Choices: []mockChoice{
			{Message: mockMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: mockUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(&Config{Token: "test-key", BaseURL: baseURL, Model: "gpt-4"})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		_, err := NewClient(&Config{Model: "gpt-4"})
		if err == nil {
			t.Fatal("expected error for missing token")
		}
		if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
			t.Errorf("error = %v, want a hint at OPENAI_API_KEY", err)
		}
	})

	t.Run("accepts token and base URL", func(t *testing.T) {
		client, err := NewClient(&Config{Token: "test-key", BaseURL: "http://localhost:8080", Model: "gpt-4"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client.model != "gpt-4" {
			t.Errorf("model = %s, want gpt-4", client.model)
		}
	})
}

func TestComplete(t *testing.T) {
	t.Run("sends prompt and context as user messages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != "POST" {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if !strings.Contains(r.URL.Path, "/chat/completions") {
				t.Errorf("expected /chat/completions path, got %s", r.URL.Path)
			}

			body, _ := io.ReadAll(r.Body)
			var reqBody map[string]interface{}
			json.Unmarshal(body, &reqBody)

			messages := reqBody["messages"].([]interface{})
			if len(messages) != 2 {
				t.Errorf("expected 2 messages, got %d", len(messages))
			}
			for i, m := range messages {
				if role := m.(map[string]interface{})["role"]; role != "user" {
					t.Errorf("message %d role = %v, want user", i, role)
				}
			}
			if got := reqBody["max_tokens"]; got != float64(321) {
				t.Errorf("max_tokens = %v, want 321", got)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(newMockCompletion("A fine README."))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		completion, err := client.Complete(context.Background(), "write a readme", "// File 'a.go'\npackage main\n", 321)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if completion.Content != "A fine README." {
			t.Errorf("Content = %q, want the mock answer", completion.Content)
		}
		want := Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
		if completion.Usage != want {
			t.Errorf("Usage = %+v, want %+v", completion.Usage, want)
		}
	})

	t.Run("omits empty context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			var reqBody map[string]interface{}
			json.Unmarshal(body, &reqBody)

			messages := reqBody["messages"].([]interface{})
			if len(messages) != 1 {
				t.Errorf("expected 1 message, got %d", len(messages))
			}
			if _, ok := reqBody["max_tokens"]; ok {
				t.Error("max_tokens should be absent when zero")
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(newMockCompletion("OK"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		if _, err := client.Complete(context.Background(), "hello", "", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("error on empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockCompletion{ID: "chatcmpl-test", Object: "chat.completion"})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Complete(context.Background(), "hello", "", 0)
		if err == nil {
			t.Fatal("expected error for empty choices")
		}
		if !strings.Contains(err.Error(), "no choices") {
			t.Errorf("error = %v, want 'no choices'", err)
		}
	})

	t.Run("error carries the HTTP status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": {"message": "bad key"}}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Complete(context.Background(), "hello", "", 0)
		if err == nil {
			t.Fatal("expected error for API failure")
		}
		if !strings.Contains(err.Error(), "HTTP 401") {
			t.Errorf("error = %v, want the 401 status", err)
		}
	})

	t.Run("handles context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := newTestClient(t, server.URL)
		if _, err := client.Complete(ctx, "hello", "", 0); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models") {
			t.Errorf("expected /models path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "list",
			"data": [
				{"id": "whisper-1", "object": "model", "created": 0, "owned_by": "openai"},
				{"id": "text-davinci-003", "object": "model", "created": 0, "owned_by": "openai"},
				{"id": "gpt-4", "object": "model", "created": 0, "owned_by": "openai"},
				{"id": "dall-e-3", "object": "model", "created": 0, "owned_by": "openai"},
				{"id": "gpt-3.5-turbo", "object": "model", "created": 0, "owned_by": "openai"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	ids, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"gpt-3.5-turbo", "gpt-4", "text-davinci-003"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ListModels() = %v, want %v", ids, want)
	}
}

func TestHasCompletionPrefix(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"gpt-4", true},
		{"gpt-3.5-turbo", true},
		{"text-davinci-003", true},
		{"code-davinci-002", true},
		{"whisper-1", false},
		{"dall-e-3", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := hasCompletionPrefix(tt.id); got != tt.want {
			t.Errorf("hasCompletionPrefix(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
