package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/review-matcher/internal/ai"
	"github.com/spigell/review-matcher/internal/ai/gemini"
	"github.com/spigell/review-matcher/internal/ai/openai"
	applogger "github.com/spigell/review-matcher/internal/logger"
	"github.com/spigell/review-matcher/internal/secrets"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"
)

var errNoProvider = errors.New("no llm api key configured")

// newSummarizer builds the summarizer for the configured provider. With an empty
// provider the first one that has an api key wins, gemini first.
func newSummarizer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*ai.Summarizer, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	var (
		generator ai.Generator
		err       error
	)

	switch provider {
	case providerGemini:
		generator, err = newGemini(ctx, cfg.Gemini, logger)
	case providerOpenAI:
		generator, err = newOpenAI(cfg.OpenAI, logger)
	case "":
		generator, err = newGemini(ctx, cfg.Gemini, logger)
		if err != nil {
			generator, err = newOpenAI(cfg.OpenAI, logger)
		}
		if err != nil {
			return nil, errNoProvider
		}
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, err
	}

	return ai.NewSummarizer(generator, ai.SummarizerConfig{
		MaxTokens:    cfg.MaxTokens,
		MaxLogLength: cfg.MaxLogLength,
	}, applogger.WithFields(logger, applogger.CommonFields(generator.Provider(), generator.Model())...)), nil
}

func newGemini(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model,
		applogger.WithFields(logger, applogger.CommonFields(providerGemini, cfg.Model)...),
	)
	if err != nil {
		return nil, err
	}

	return generator, nil
}

func newOpenAI(cfg *OpenAIConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &OpenAIConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "openai api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "OPENAI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	client, err := openai.New(apiKey, cfg.BaseURL, cfg.Model, cfg.Timeout,
		applogger.WithFields(logger, applogger.CommonFields(providerOpenAI, cfg.Model)...),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}
