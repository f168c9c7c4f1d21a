package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lacri-bot/pkg/openai"
)

func TestChatCompletion(t *testing.T) {
	var lastBody map[string]any
	var lastAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		lastAuth = r.Header.Get("Authorization")
		lastBody = map[string]any{}
		json.NewDecoder(r.Body).Decode(&lastBody)

		msgs, _ := lastBody["messages"].([]any)
		last, _ := msgs[len(msgs)-1].(map[string]any)
		switch last["content"] {
		case "cause_500":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
		case "cause_429_plain":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`slow down`))
		case "cause_garbage":
			w.Write([]byte(`{not json`))
		case "legacy_text":
			w.Write([]byte(`{"model":"coder","choices":[{"index":0,"text":"  print('hi')  "}]}`))
		default:
			w.Write([]byte(`{"model":"llama","choices":[{"index":0,"message":{"role":"assistant","content":" hello there \n"}}],"usage":{"prompt_tokens":7,"completion_tokens":3,"total_tokens":10}}`))
		}
	}))
	defer ts.Close()

	client, err := openai.New(openai.Config{APIKey: "test-key", Model: "llama", BaseURL: ts.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	send := func(content string) (*openai.ChatResponse, error) {
		return client.ChatCompletion(context.Background(), &openai.ChatRequest{
			Messages:    []openai.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: content}},
			Temperature: 0.7,
			MaxTokens:   100,
			TopP:        0.9,
		})
	}

	t.Run("Success", func(t *testing.T) {
		resp, err := send("hi")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text, ok := resp.FirstText()
		if !ok || text != "hello there" {
			t.Errorf("expected trimmed text, got %q (%v)", text, ok)
		}
		if resp.Usage.TotalTokens != 10 {
			t.Errorf("expected usage 10, got %d", resp.Usage.TotalTokens)
		}
		if lastAuth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", lastAuth)
		}
		if lastBody["model"] != "llama" {
			t.Errorf("expected default model to be filled, got %v", lastBody["model"])
		}
		if _, present := lastBody["top_k"]; present {
			t.Errorf("top_k must be omitted when unset")
		}
	})

	t.Run("Optional sampling params", func(t *testing.T) {
		topK := 50
		penalty := 1.0
		_, err := client.ChatCompletion(context.Background(), &openai.ChatRequest{
			Model:             "qwq",
			Messages:          []openai.Message{{Role: "user", Content: "hi"}},
			TopK:              &topK,
			RepetitionPenalty: &penalty,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lastBody["top_k"] != float64(50) || lastBody["repetition_penalty"] != float64(1) {
			t.Errorf("expected top_k and repetition_penalty, got %v", lastBody)
		}
		if lastBody["model"] != "qwq" {
			t.Errorf("request model must win over default, got %v", lastBody["model"])
		}
	})

	t.Run("Legacy text choice", func(t *testing.T) {
		resp, err := send("legacy_text")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text, ok := resp.FirstText()
		if !ok || text != "print('hi')" {
			t.Errorf("expected legacy text, got %q", text)
		}
	})

	t.Run("API error with body", func(t *testing.T) {
		_, err := send("cause_500")
		var apiErr *openai.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != 500 || apiErr.Message != "upstream exploded" {
			t.Errorf("unexpected api error %+v", apiErr)
		}
	})

	t.Run("API error plain", func(t *testing.T) {
		_, err := send("cause_429_plain")
		if err == nil || !strings.Contains(err.Error(), "slow down") {
			t.Fatalf("expected raw body in error, got %v", err)
		}
	})

	t.Run("Garbage body", func(t *testing.T) {
		_, err := send("cause_garbage")
		if !errors.Is(err, openai.ErrInvalidResponse) {
			t.Fatalf("expected ErrInvalidResponse, got %v", err)
		}
	})

	t.Run("Network failure", func(t *testing.T) {
		bad, _ := openai.New(openai.Config{APIKey: "k", Model: "m", BaseURL: "http://invalid-url.local:1234"})
		_, err := bad.ChatCompletion(context.Background(), &openai.ChatRequest{Messages: []openai.Message{{Role: "user", Content: "x"}}})
		if err == nil {
			t.Errorf("expected network failure on invalid domain")
		}
	})
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := openai.New(openai.Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestFirstText_Empty(t *testing.T) {
	resp := &openai.ChatResponse{Choices: []openai.Choice{{Message: &openai.Message{Content: "   "}}}}
	if _, ok := resp.FirstText(); ok {
		t.Error("blank content must not count as text")
	}
	if _, ok := (&openai.ChatResponse{}).FirstText(); ok {
		t.Error("no choices must not count as text")
	}
}
