package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docwizard-backend/internal/llm"
)

func TestGenerateReturnsCandidateText(t *testing.T) {
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-pro:generateContent") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "1. Summary\n"}, {"text": "Score: 80"}}}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient("test-key", "gemini-pro")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL

	reply, err := c.Generate(context.Background(), llm.Request{
		Prompt:      "Analyze this.",
		MaxTokens:   500,
		Temperature: 0.4,
		TopP:        0.8,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "1. Summary\nScore: 80" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if gotBody.GenerationConfig == nil || gotBody.GenerationConfig.MaxOutputTokens != 500 {
		t.Fatalf("generation config not forwarded: %+v", gotBody.GenerationConfig)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 429, "message": "rate limited", "status": "RESOURCE_EXHAUSTED"},
		})
	}))
	defer srv.Close()

	c, _ := NewClient("test-key", "gemini-pro")
	c.baseURL = srv.URL

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

	c, _ := NewClient("test-key", "gemini-pro")
	c.baseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Generate(ctx, llm.Request{Prompt: "x"}); err == nil {
		t.Fatal("expected deadline error")
	}
}
