package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmethakanbesel/similarity-api/internal/embedding"
)

func TestEmbed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", auth)
		}

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		if req.Input != "some text" {
			t.Errorf("unexpected input: %s", req.Input)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	}))
	defer ts.Close()

	c := New(
		WithClient(ts.Client()),
		WithBaseURL(ts.URL),
		WithAPIKey("test-key"),
		WithModel("test-model"),
	)

	vec, err := c.Embed(context.Background(), "some text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(vec))
	}
	if vec[1] != 0.2 {
		t.Errorf("expected 0.2, got %f", vec[1])
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	c := New()
	_, err := c.Embed(context.Background(), "   ")
	if !errors.Is(err, embedding.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestEmbed_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer ts.Close()

	c := New(WithClient(ts.Client()), WithBaseURL(ts.URL))
	_, err := c.Embed(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	c := New(WithClient(ts.Client()), WithBaseURL(ts.URL))
	_, err := c.Embed(context.Background(), "some text")
	if err == nil {
		t.Fatal("expected error for empty data")
	}
}
