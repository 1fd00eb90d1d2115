package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDetectText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []map[string]any `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Fatalf("unexpected messages %+v", req.Messages)
		}
		imageURL, _ := req.Messages[0].Content[1]["image_url"].(map[string]any)
		if url, _ := imageURL["url"].(string); !strings.HasPrefix(url, "data:") {
			t.Errorf("expected data url, got %q", url)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Bib 77"}}]}`))
	}))
	defer server.Close()

	o := New("gpt-4o-mini")
	o.URL = server.URL
	o.APIKey = "test-key"

	got, err := o.DetectText(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("DetectText returned error: %v", err)
	}
	if got != "Bib 77" {
		t.Errorf("Expected %q, got %q", "Bib 77", got)
	}
}

func TestDetectTextErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	o := New("")
	o.URL = server.URL

	o.APIKey = ""
	if _, err := o.DetectText(context.Background(), []byte("img")); err == nil {
		t.Error("Expected error without API key")
	}

	o.APIKey = "k"
	if _, err := o.DetectText(context.Background(), []byte("img")); err == nil {
		t.Error("Expected error for empty choices")
	}
}
