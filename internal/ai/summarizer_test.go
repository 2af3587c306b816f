package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/beauty"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastSystem string
	lastPrompt string
	lastTokens int
}

func (s *stubGenerator) Generate(_ context.Context, system, prompt string, maxTokens int) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastPrompt = prompt
	s.lastTokens = maxTokens
	return s.response, s.err
}

func (s *stubGenerator) Provider() string { return "stub" }

func (s *stubGenerator) Model() string { return "stub-model" }

func sampleReviews() []beauty.Review {
	return []beauty.Review{
		{
			Comment:     "Teksturnya ringan",
			Rating:      5,
			Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Stars:       map[string]float64{beauty.DimensionTexture: 5},
			Repurchased: true,
			Beauty:      beauty.LegacyPayload([]beauty.Subtag{{Name: "Oily"}, {Name: "Acne Prone"}}, nil),
		},
		{
			Comment: "Agak lengket",
			Rating:  3,
			Beauty: beauty.CategoriesPayload([]beauty.Category{
				{Name: "Skin Tone", Subtags: []beauty.Subtag{{Name: "Medium"}}},
			}),
		},
	}
}

func TestSummarize(t *testing.T) {
	stub := &stubGenerator{response: "  Kelebihan: ringan\nKekurangan: lengket  "}
	s := NewSummarizer(stub, SummarizerConfig{}, zap.NewNop())
	s.now = func() time.Time { return time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC) }

	summary, err := s.Summarize(context.Background(), Product{Name: "Glow Serum", Brand: "Somethinc", Category: "Serum"}, sampleReviews())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Text != "Kelebihan: ringan\nKekurangan: lengket" {
		t.Fatalf("unexpected summary: %q", summary.Text)
	}
	if summary.Provider != "stub" || summary.Model != "stub-model" {
		t.Fatalf("unexpected provider/model: %+v", summary)
	}
	if stub.lastSystem != SystemInstruction || stub.lastTokens != defaultMaxTokens {
		t.Fatalf("unexpected request: system=%q tokens=%d", stub.lastSystem, stub.lastTokens)
	}

	for _, want := range []string{
		"Serum product called Glow Serum from the brand Somethinc",
		"Today's date is 2025-02-03",
		`"review text": "Teksturnya ringan"`,
		`"skin": "Oily, Acne Prone"`,
		`"hair": "Not specified"`,
		`"Skin Tone": "Medium"`,
		`"texture": 5`,
		`"repurchased": true`,
	} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt does not contain %q:\n%s", want, stub.lastPrompt)
		}
	}
}

func TestSummarizeFallbacks(t *testing.T) {
	t.Run("no reviews", func(t *testing.T) {
		stub := &stubGenerator{response: "unused"}
		s := NewSummarizer(stub, SummarizerConfig{}, nil)

		summary, err := s.Summarize(context.Background(), Product{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Text != NoSummary || stub.calls != 0 {
			t.Fatalf("expected fallback without a model call, got %q (%d calls)", summary.Text, stub.calls)
		}
	})

	t.Run("blank completion", func(t *testing.T) {
		stub := &stubGenerator{response: "   "}
		s := NewSummarizer(stub, SummarizerConfig{MaxTokens: 50}, nil)

		summary, err := s.Summarize(context.Background(), Product{}, sampleReviews())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.Text != NoSummary || stub.lastTokens != 50 {
			t.Fatalf("unexpected result %q with %d tokens", summary.Text, stub.lastTokens)
		}
		if !strings.Contains(stub.lastPrompt, "Unknown product called Unknown") {
			t.Fatalf("expected unknown placeholders in prompt")
		}
	})

	t.Run("generator error", func(t *testing.T) {
		stub := &stubGenerator{err: errors.New("quota exceeded")}
		s := NewSummarizer(stub, SummarizerConfig{}, nil)

		if _, err := s.Summarize(context.Background(), Product{}, sampleReviews()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("not configured", func(t *testing.T) {
		var s *Summarizer
		if _, err := s.Summarize(context.Background(), Product{}, sampleReviews()); err == nil {
			t.Fatal("expected error")
		}
	})
}
