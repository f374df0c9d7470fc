package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"docwizard-backend/internal/llm"
)

func TestGenerateReturnsChoiceContent(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  the reply  "}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.apiURL = srv.URL

	reply, err := c.Generate(context.Background(), llm.Request{
		System:      "You are a technical document analyst.",
		Prompt:      "Analyze this.",
		MaxTokens:   1500,
		Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "the reply" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if gotBody.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", gotBody.Model)
	}
	if gotBody.MaxTokens != 1500 {
		t.Fatalf("unexpected max_tokens %d", gotBody.MaxTokens)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" {
		t.Fatalf("expected system+user messages, got %+v", gotBody.Messages)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "quota exceeded", "type": "insufficient_quota"},
		})
	}))
	defer srv.Close()

	c, _ := NewClient("test-key", "gpt-4o-mini")
	c.apiURL = srv.URL

	if _, err := c.Generate(context.Background(), llm.Request{Prompt: "x"}); err == nil {
		t.Fatal("expected API error")
	}
}

func TestGenerateHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, _ := NewClient("test-key", "gpt-4o-mini")
	c.apiURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.Generate(ctx, llm.Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected deadline error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("call outlived deadline: %v", elapsed)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := NewClient("key", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}
