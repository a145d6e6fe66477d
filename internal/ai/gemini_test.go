package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nhle/prospector/internal/model"
)

func staticKey(k string) func() (string, error) {
	return func() (string, error) { return k, nil }
}

func TestGeminiModel_MissingKey(t *testing.T) {
	m := NewGeminiModel(GeminiConfig{APIKey: staticKey("  ")})

	_, err := m.Generate(context.Background(), ModelRequest{Prompt: "hi"})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestGeminiModel_NoDocumentStore(t *testing.T) {
	m := NewGeminiModel(GeminiConfig{APIKey: staticKey("k"), BaseURL: "http://127.0.0.1:1"})

	_, err := m.Generate(context.Background(), ModelRequest{Prompt: "hi", Search: SearchDocuments})
	if !errors.Is(err, ErrNoDocumentStore) {
		t.Errorf("err = %v, want ErrNoDocumentStore", err)
	}
}

func TestGeminiModel_Generate(t *testing.T) {
	var body map[string]any
	var path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Hi Sam,"}]},
				"groundingMetadata": {"groundingChunks": [
					{"web": {"uri": "https://a.example", "title": "A"}},
					{"retrievedContext": {"uri": "ignored"}}
				]}
			}]
		}`)
	}))
	defer srv.Close()

	m := NewGeminiModel(GeminiConfig{
		APIKey:     staticKey("test-key"),
		Model:      "gemini-test",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})

	resp, err := m.Generate(context.Background(), ModelRequest{
		Prompt:     "write it",
		Attachment: &model.Attachment{Name: "a.txt", MIMEType: "text/plain", Data: "aGVsbG8="},
		Search:     SearchWeb,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if resp.Text != "Hi Sam," {
		t.Errorf("Text = %q", resp.Text)
	}
	if len(resp.Citations) != 1 || resp.Citations[0].URI != "https://a.example" {
		t.Errorf("Citations = %v", resp.Citations)
	}
	if !strings.HasSuffix(path, "gemini-test:generateContent") {
		t.Errorf("path = %q", path)
	}

	raw, _ := json.Marshal(body)
	for _, want := range []string{"write it", "googleSearch", "text/plain", "aGVsbG8="} {
		if !strings.Contains(string(raw), want) {
			t.Errorf("request body missing %q: %s", want, raw)
		}
	}
}

func TestGeminiModel_BadAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite invalid attachment")
	}))
	defer srv.Close()

	m := NewGeminiModel(GeminiConfig{APIKey: staticKey("k"), BaseURL: srv.URL})
	_, err := m.Generate(context.Background(), ModelRequest{
		Prompt:     "x",
		Attachment: &model.Attachment{Name: "a.bin", Data: "not base64!"},
	})
	if err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
