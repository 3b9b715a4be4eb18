package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/animora/vetassist/internal/domain"
)

func TestVisionDescribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type     string `json:"type"`
					Text     string `json:"text"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
			t.Fatalf("unexpected message shape: %+v", req.Messages)
		}
		if req.Messages[0].Content[0].Type != "text" {
			t.Errorf("first part must be the prompt, got %s", req.Messages[0].Content[0].Type)
		}
		if !strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,") {
			t.Errorf("image part missing data URL: %s", req.Messages[0].Content[1].ImageURL.URL)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"object": "chat.completion",
			"model": "llava",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Visible swelling of the udder."},
				"finish_reason": "stop"
			}]
		}`))
	}))
	defer server.Close()

	v := NewVision(&Config{
		BaseURL:  server.URL,
		Model:    "llava",
		Provider: "ollama",
		Logger:   zap.NewNop(),
	})

	got, err := v.Describe(context.Background(), "aGVsbG8=", "What do you see?")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if got != "Visible swelling of the udder." {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestVisionNotRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listening anymore

	v := NewVision(&Config{
		BaseURL:  server.URL,
		Model:    "llava",
		Provider: "ollama",
		Logger:   zap.NewNop(),
	})

	_, err := v.Describe(context.Background(), "aGVsbG8=", "What do you see?")
	if !errors.Is(err, domain.ErrVisionNotRunning) {
		t.Fatalf("expected ErrVisionNotRunning, got %v", err)
	}
}
