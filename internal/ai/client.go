package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/Afifibytes/simple-survey-tool/internal/errors"
)

// Completer turns a prompt into generated text. The concrete provider stays
// swappable behind this contract; the follow-up generator only needs
// "prompt in, text out, or failure".
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no API credential was provided. Callers treat it
// as a configuration warning rather than an operational error.
var ErrNotConfigured = errors.NewSentinel("AI completer not configured")

type Config struct {
	// APIKey is the provider credential. Empty means the client is not configured.
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for tests or proxies.
	BaseURL string
	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// Client is an OpenAI-backed Completer.
type Client struct {
	client  *openai.Client
	timeout time.Duration
}

const (
	// maxTokens bounds the generated output; a follow-up question is short.
	maxTokens = 100
	// temperature is moderate so questions stay on topic but vary in wording.
	temperature = 0.7

	defaultTimeout = 30 * time.Second
)

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if cfg.APIKey == "" {
		return &Client{client: nil, timeout: timeout}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		timeout: timeout,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       openai.GPT3Dot5Turbo,
			MaxTokens:   maxTokens,
			Temperature: temperature,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion has no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
