package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/beauty"
	"github.com/spigell/review-matcher/internal/utils"
)

const (
	// SystemInstruction asks for a structured summary with pros and cons.
	SystemInstruction = "merangkum ulasan produk. Berikan ringkasan yang terstruktur dengan kelebihan dan kekurangan."
	// NoSummary is returned when there is nothing to summarize or the model answered with nothing.
	NoSummary = "No summary available."

	defaultMaxTokens    = 150
	defaultMaxLogLength = 200
	notSpecified        = "Not specified"
)

//go:embed prompt.md
var promptTemplate string

// Generator is a single-shot LLM completion backend.
type Generator interface {
	Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error)
	Provider() string
	Model() string
}

// Summary is the generated review summary.
type Summary struct {
	Text     string `json:"summary"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// Product describes the product whose reviews are summarized.
type Product struct {
	Name     string
	Brand    string
	Category string
}

type SummarizerConfig struct {
	MaxTokens    int `mapstructure:"max-tokens"`
	MaxLogLength int `mapstructure:"max-log-length"`
}

// Summarizer turns product reviews into a pros/cons summary.
type Summarizer struct {
	generator Generator
	logger    *zap.Logger
	maxTokens int
	maxLogLen int
	now       func() time.Time
}

func NewSummarizer(generator Generator, cfg SummarizerConfig, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Summarizer{
		generator: generator,
		logger:    logger,
		maxTokens: cfg.MaxTokens,
		maxLogLen: cfg.MaxLogLength,
		now:       time.Now,
	}
}

// Summarize asks the model for a summary of reviews. No model call is made
// when there is no review.
func (s *Summarizer) Summarize(ctx context.Context, product Product, reviews []beauty.Review) (*Summary, error) {
	if s == nil || s.generator == nil {
		return nil, errors.New("summarizer is not configured")
	}

	summary := &Summary{
		Text:     NoSummary,
		Provider: s.generator.Provider(),
		Model:    s.generator.Model(),
	}

	if len(reviews) == 0 {
		return summary, nil
	}

	prompt, err := s.buildPrompt(product, reviews)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("summary request",
		zap.Int("reviews", len(reviews)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.Generate(ctx, SystemInstruction, prompt, s.maxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	s.logger.Debug("summary response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	if text := strings.TrimSpace(raw); text != "" {
		summary.Text = text
	}

	return summary, nil
}

type promptReview struct {
	Text        string             `json:"review text"`
	Profile     map[string]string  `json:"reviewer's beauty profile"`
	Rating      map[string]float64 `json:"rating given"`
	Repurchased bool               `json:"repurchased"`
	CreatedAt   string             `json:"created_at"`
}

func (s *Summarizer) buildPrompt(product Product, reviews []beauty.Review) (string, error) {
	formatted := make([]promptReview, 0, len(reviews))
	for _, review := range reviews {
		formatted = append(formatted, promptReview{
			Text:        review.Comment,
			Profile:     reviewerProfile(review.Beauty),
			Rating:      ratingGiven(review),
			Repurchased: review.Repurchased,
			CreatedAt:   review.Date.UTC().Format(time.RFC3339),
		})
	}

	reviewsJSON, err := json.MarshalIndent(formatted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal reviews payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Summarize these product reviews:\n\n{{REVIEWS_JSON}}"
	}

	replacer := strings.NewReplacer(
		"{{CATEGORY}}", orUnknown(product.Category),
		"{{PRODUCT}}", orUnknown(product.Name),
		"{{BRAND}}", orUnknown(product.Brand),
		"{{TODAY}}", s.now().UTC().Format("2006-01-02"),
		"{{REVIEWS_JSON}}", string(reviewsJSON),
	)

	return replacer.Replace(template), nil
}

// reviewerProfile renders beauty data as category -> comma separated subtags.
func reviewerProfile(payload beauty.Payload) map[string]string {
	profile := map[string]string{}
	if payload.Kind == beauty.PayloadLegacy {
		profile["skin"] = notSpecified
		profile["hair"] = notSpecified
	}

	grouped := make(map[string][]string)
	order := make([]string, 0)
	for _, attr := range payload.Attributes() {
		key := attr.Category
		switch key {
		case beauty.LegacySkinCategory:
			key = "skin"
		case beauty.LegacyHairCategory:
			key = "hair"
		}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], attr.Name)
	}

	for _, key := range order {
		profile[key] = strings.Join(grouped[key], ", ")
	}

	return profile
}

func ratingGiven(review beauty.Review) map[string]float64 {
	rating := map[string]float64{"average": review.Rating}
	for dim, star := range review.Stars {
		rating[dim] = star
	}
	return rating
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return strings.TrimSpace(s)
}
