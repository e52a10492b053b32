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

	"smart-hr/internal/config"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose", "Here you go: {\"a\":{\"b\":2}} thanks", `{"a":{"b":2}}`},
		{"array", "```\n[1,2]\n```", `[1,2]`},
		{"no json", "sorry", "sorry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSON(tt.in); got != tt.want {
				t.Fatalf("CleanJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	c := NewClient(config.AIConfig{}, nil)
	if _, err := c.CompleteJSON(context.Background(), "", "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := c.Embed(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_CompleteJSON(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("missing bearer token")
		}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```json\\n{\\\"score\\\":80}\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.AIConfig{APIKey: "k", BaseURL: srv.URL + "/v1/", Model: "m"}, nil)
	out, err := c.CompleteJSON(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(out) != `{"score":80}` {
		t.Fatalf("unexpected content %q", out)
	}
	if gotBody["response_format"] == nil || gotBody["model"] != "m" {
		t.Fatalf("unexpected request body %v", gotBody)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := NewClient(config.AIConfig{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "", "hi")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.25]}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.AIConfig{APIKey: "k", BaseURL: srv.URL}, nil)
	v, err := c.Embed(context.Background(), "profile")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(v) != 2 || v[0] != 0.5 {
		t.Fatalf("unexpected embedding %v", v)
	}
}
