package cmd

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestNewSummarizer(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		cfg     *AIConfig
		wantErr error
	}{
		{
			name:    "nothing configured",
			cfg:     nil,
			wantErr: errNoProvider,
		},
		{
			name: "openai picked automatically",
			cfg:  &AIConfig{OpenAI: &OpenAIConfig{APIKey: "sk-test"}},
		},
		{
			name: "explicit openai",
			cfg:  &AIConfig{Provider: " OpenAI ", OpenAI: &OpenAIConfig{APIKey: "sk-test", Model: "gpt-test"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := newSummarizer(context.Background(), tt.cfg, zap.NewNop())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s == nil {
				t.Fatal("expected summarizer")
			}
		})
	}
}

func TestNewSummarizerErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := newSummarizer(context.Background(), &AIConfig{Provider: "claude"}, zap.NewNop()); err == nil {
		t.Fatal("expected unsupported provider error")
	}

	if _, err := newSummarizer(context.Background(), &AIConfig{Provider: "gemini"}, zap.NewNop()); err == nil {
		t.Fatal("expected missing gemini key error")
	}
}
