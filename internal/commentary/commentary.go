package commentary

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Alias1177/CrashSignal/internal/history"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// UnavailableMessage is returned for every call once the generator failed to initialize.
const UnavailableMessage = "⚠️ AI risk analysis is unavailable."

// ErrMissingCredential is returned by factories when no API key is configured.
var ErrMissingCredential = errors.New("commentary credential is not set")

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Factory builds the Generator on first use.
type Factory func() (Generator, error)

// Client produces risk commentary for a verdict. The generator is built at
// most once; a failed build is remembered and never retried.
type Client struct {
	factory Factory
	logger  zerolog.Logger

	once    sync.Once
	gen     Generator
	initErr error
}

// NewClient creates a commentary client over factory
func NewClient(factory Factory) *Client {
	return &Client{
		factory: factory,
		logger:  log.With().Str("component", "commentary_client").Logger(),
	}
}

func (c *Client) generator() (Generator, error) {
	c.once.Do(func() {
		if c.factory == nil {
			c.initErr = ErrMissingCredential
		} else {
			c.gen, c.initErr = c.factory()
			if c.initErr == nil && c.gen == nil {
				c.initErr = errors.New("commentary factory returned no generator")
			}
		}
		if c.initErr != nil {
			c.logger.Warn().Err(c.initErr).Msg("AI commentary disabled")
		}
	})
	return c.gen, c.initErr
}

// Explain asks the generator for a short risk assessment of history and the
// verdict text. It never fails: errors become fallback text.
func (c *Client) Explain(ctx context.Context, values []float64, verdictText string) models.Commentary {
	gen, err := c.generator()
	if err != nil {
		return models.Commentary{Status: models.CommentaryUnavailable, Text: UnavailableMessage}
	}

	text, err := gen.Generate(ctx, Prompt(values, verdictText))
	if err != nil {
		c.logger.Error().Err(err).Int("rounds", len(values)).Msg("AI commentary request failed")
		return models.Commentary{Status: models.CommentaryFailed, Text: ErrorMessage(err)}
	}
	return models.Commentary{Status: models.CommentaryGenerated, Text: text}
}

// Prompt builds the generation prompt for a history and its verdict.
func Prompt(values []float64, verdictText string) string {
	return fmt.Sprintf(
		"Analyze the sequence: %s. The calculated signal is: '%s'. "+
			"Based on crash game risk principles, provide a quick 3-4 sentence risk assessment.",
		history.Format(values), verdictText,
	)
}

// ErrorMessage is the fallback shown when a generation call fails.
func ErrorMessage(err error) string {
	return fmt.Sprintf("AI API error: could not generate analysis. (%v)", err)
}
