package script

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestChatGeneratorSendsPromptAndReadsContent(t *testing.T) {
	t.Parallel()

	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer gsk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"पहली खबर: नमस्ते"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)

	g := NewChat("gsk-test", srv.URL+"/v1/", "llama-3.3-70b-versatile")
	text, err := g.Generate(context.Background(), Request{System: "sys", Prompt: "user", Temperature: 0.7, MaxTokens: 1024})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "पहली खबर: नमस्ते" {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Model != "llama-3.3-70b-versatile" || got.MaxTokens != 1024 || len(got.Messages) != 2 {
		t.Fatalf("unexpected request %+v", got)
	}
	if got.Messages[0].Role != "system" || got.Messages[1].Content != "user" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestChatGeneratorErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer empty" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	t.Cleanup(srv.Close)

	if _, err := NewChat("k", srv.URL, "m").Generate(context.Background(), Request{Prompt: "p"}); err == nil {
		t.Fatalf("expected error on 429")
	}
	_, err := NewChat("empty", srv.URL, "m").Generate(context.Background(), Request{Prompt: "p"})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiResponseText(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("पहली "), genai.Text("खबर")}},
	}}}
	text, err := responseText(resp)
	if err != nil || text != "पहली खबर" {
		t.Fatalf("responseText = %q, %v", text, err)
	}

	if _, err := responseText(&genai.GenerateContentResponse{}); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse for no candidates, got %v", err)
	}
	blocked := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}
	if _, err := responseText(blocked); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse for blocked candidate, got %v", err)
	}
}

func TestCleanNarration(t *testing.T) {
	t.Parallel()

	in := "## पहली खबर\n\n\n\n[UPSC Relevance]\n**GS Paper 2** के लिए"
	want := "पहली खबर\n\nGS Paper 2 के लिए"
	if got := cleanNarration(in); got != want {
		t.Fatalf("cleanNarration = %q, want %q", got, want)
	}
}
