package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("sk-test", srv.URL+"/v1/chat/completions/", "gpt-test", time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestClientGenerate(t *testing.T) {
	var got goopenai.ChatCompletionRequest
	var auth, path string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Kelebihan: lembap  "}}]}`))
	})

	out, err := c.Generate(context.Background(), "sys", "reviews", 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "Kelebihan: lembap" {
		t.Fatalf("unexpected output: %q", out)
	}
	if auth != "Bearer sk-test" || path != "/v1/chat/completions" {
		t.Fatalf("unexpected request: auth=%q path=%q", auth, path)
	}
	if got.Model != "gpt-test" || got.MaxTokens != 150 || len(got.Messages) != 2 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Messages[0].Role != goopenai.ChatMessageRoleSystem || got.Messages[1].Content != "reviews" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestClientGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		expect  string
	}{
		{
			name: "api error message",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			},
			expect: "invalid api key",
		},
		{
			name: "status without body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			expect: "status=503",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
			expect: "no choices",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Generate(context.Background(), "", "msg", 0)
			if err == nil || !strings.Contains(err.Error(), tt.expect) {
				t.Fatalf("expected error containing %q, got %v", tt.expect, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	if _, err := New(" ", "", "", 0, nil); err == nil {
		t.Fatal("expected error without api key")
	}

	c, err := New("key", "", "", 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL != defaultBaseURL || c.Model() != defaultModel || c.Provider() != "openai" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}
