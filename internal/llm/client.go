// Package llm is the text-completion backend client. It speaks the
// OpenAI-compatible chat API, which Ollama serves under /v1.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"moviebot/internal/domain"
	"moviebot/internal/metrics"
)

// Config configures the completion client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	MaxTokens int

	// FailureThreshold consecutive failures open the breaker for OpenTimeout.
	FailureThreshold int
	OpenTimeout      time.Duration

	Logger *zap.Logger
}

// Client sends single, non-streaming completion requests.
type Client struct {
	client    *openai.Client
	model     string
	timeout   time.Duration
	maxTokens int
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewClient creates a completion client. Ollama ignores the API key, so a
// missing key is replaced with a placeholder.
func NewClient(cfg Config) *Client {
	key := ""
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		key = "ollama"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(key)
	clientCfg.BaseURL = cfg.BaseURL

	threshold := uint32(cfg.FailureThreshold)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "completion",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
		breaker:   breaker,
		logger:    logger,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Complete sends prompt as a single user message and returns the reply text.
// Every failure, including timeouts and an open breaker, wraps
// domain.ErrBackendUnavailable.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		metrics.CompletionRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", fmt.Errorf("%w: %s", domain.ErrBackendUnavailable, describe(err))
	}
	metrics.CompletionRequestsTotal.WithLabelValues(c.model, "success").Inc()
	return out.(string), nil
}

// Reply generates a conversational reply for a system and user prompt pair.
func (c *Client) Reply(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	prompt := fmt.Sprintf("System: %s\nUser: %s\nAssistant:", systemPrompt, userPrompt)
	return c.Complete(ctx, prompt)
}

func describe(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("api error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request error %d", reqErr.HTTPStatusCode)
	}
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return err.Error()
}
