package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	provider       = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = goopenai.GPT4oMini
	defaultTimeout = 60 * time.Second
	completionPath = "/chat/completions"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Client calls an OpenAI compatible chat completion endpoint.
type Client struct {
	BaseURL string

	api    chatCompleter
	model  string
	logger *zap.Logger
}

func New(apiKey, baseURL, model string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required")
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = normalizeBaseURL(baseURL)
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		BaseURL: cfg.BaseURL,
		api:     goopenai.NewClientWithConfig(cfg),
		model:   model,
		logger:  logger,
	}, nil
}

// Generate sends one system and one user message and returns the first choice.
func (c *Client) Generate(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})

	c.logger.Debug("chat completion request",
		zap.String("base_url", c.BaseURL),
		zap.Int("prompt_length", len(prompt)),
	)

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion: status=%d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}

		var reqErr *goopenai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("chat completion: status=%d: %w", reqErr.HTTPStatusCode, err)
		}

		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) Provider() string { return provider }

func (c *Client) Model() string { return c.model }

// normalizeBaseURL accepts both ".../v1" and ".../v1/chat/completions".
func normalizeBaseURL(baseURL string) string {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	url = strings.TrimRight(url, "/")
	return strings.TrimSuffix(url, completionPath)
}
