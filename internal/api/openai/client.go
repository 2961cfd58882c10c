package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Alias1177/CrashSignal/internal/commentary"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// ErrEmptyCompletion is returned when the endpoint answers without choices.
var ErrEmptyCompletion = errors.New("text generation returned no choices")

// Client wraps an OpenAI-compatible chat completion endpoint
type Client struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// Options configures a Client.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a new chat completion client
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, commentary.ErrMissingCredential
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
		logger: log.With().Str("component", "openai_client").Logger(),
	}, nil
}

// Factory returns a commentary factory that builds a Client from cfg on first use.
func Factory(cfg *models.Config) commentary.Factory {
	return func() (commentary.Generator, error) {
		return NewClient(Options{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.CommentaryBaseURL,
			Model:   cfg.CommentaryModel,
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		})
	}
}

// Generate sends a prompt as a single user message and returns the completion
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Int("prompt_len", len(prompt)).Msg("Sending prompt")

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.logger.Warn().Msg("Completion returned empty choices")
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
