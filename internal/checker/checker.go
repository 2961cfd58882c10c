package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/CrashSignal/internal/history"
	"github.com/Alias1177/CrashSignal/internal/signal"
	"github.com/Alias1177/CrashSignal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Check sources
const (
	SourceCLI      = "cli"
	SourceWeb      = "web"
	SourceAPI      = "api"
	SourceTelegram = "telegram"
)

// Observer receives check metrics.
type Observer interface {
	RecordVerdict(source string, kind models.VerdictKind)
	RecordRejected(source, reason string)
	RecordCommentary(status string)
	RecordDuration(source string, seconds float64)
}

// Outcome is everything a surface renders for one check.
type Outcome struct {
	ID         string
	Source     string
	History    []float64
	Verdict    models.Verdict
	Commentary models.Commentary
	Notice     string // replaces commentary when the history is too short
	Duration   time.Duration
}

// CommentaryShown reports whether commentary was requested for this outcome.
func (o *Outcome) CommentaryShown() bool {
	return o.Commentary.Status != models.CommentarySkipped
}

// Service runs the "check signal" action: parse, evaluate, then comment.
type Service struct {
	evaluator *signal.Evaluator
	explainer models.Explainer
	journal   models.Journal
	observer  Observer
	logger    zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithJournal records every completed check in j.
func WithJournal(j models.Journal) Option {
	return func(s *Service) { s.journal = j }
}

// WithObserver reports check metrics to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// New creates a check service
func New(evaluator *signal.Evaluator, explainer models.Explainer, opts ...Option) *Service {
	s := &Service{
		evaluator: evaluator,
		explainer: explainer,
		logger:    log.With().Str("component", "checker").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NoticeMessage is shown instead of commentary for short histories.
func NoticeMessage(window int) string {
	return fmt.Sprintf("Need at least %d rounds for full AI analysis.", window)
}

// Check parses raw and runs the check. Parse failures are returned as
// history.ErrEmptyInput or *history.ParseError; nothing is evaluated then.
func (s *Service) Check(ctx context.Context, source, raw string) (*Outcome, error) {
	values, err := history.Parse(raw)
	if err != nil {
		reason := "parse"
		if errors.Is(err, history.ErrEmptyInput) {
			reason = "empty"
		}
		s.logger.Debug().Err(err).Str("source", source).Msg("Rejected history input")
		if s.observer != nil {
			s.observer.RecordRejected(source, reason)
		}
		return nil, err
	}
	return s.CheckValues(ctx, source, values), nil
}

// CheckValues evaluates values and, when the history is long enough,
// attaches commentary. It always returns a renderable outcome.
func (s *Service) CheckValues(ctx context.Context, source string, values []float64) *Outcome {
	start := time.Now()
	out := &Outcome{
		ID:      uuid.NewString(),
		Source:  source,
		History: values,
		Verdict: s.evaluator.Evaluate(values),
	}

	if out.Verdict.Kind == models.VerdictInsufficientData {
		out.Commentary = models.Commentary{Status: models.CommentarySkipped}
		out.Notice = NoticeMessage(s.evaluator.Rules().SafeWindow)
	} else {
		out.Commentary = s.explainer.Explain(ctx, values, out.Verdict.Message)
	}
	out.Duration = time.Since(start)

	s.logger.Info().
		Str("id", out.ID).
		Str("source", source).
		Int("rounds", len(values)).
		Str("verdict", string(out.Verdict.Kind)).
		Int("low_streak", out.Verdict.LowStreak).
		Bool("high_hit", out.Verdict.HighHit).
		Str("commentary", out.Commentary.Status).
		Dur("took", out.Duration).
		Msg("Signal check complete")

	if s.observer != nil {
		s.observer.RecordVerdict(source, out.Verdict.Kind)
		s.observer.RecordCommentary(out.Commentary.Status)
		s.observer.RecordDuration(source, out.Duration.Seconds())
	}

	if s.journal != nil {
		rec := models.CheckRecord{
			ID:               out.ID,
			Source:           source,
			Rounds:           len(values),
			Verdict:          out.Verdict.Kind,
			IsSignal:         out.Verdict.IsSignal,
			CommentaryStatus: out.Commentary.Status,
			CreatedAt:        start,
		}
		if err := s.journal.RecordCheck(ctx, rec); err != nil {
			s.logger.Error().Err(err).Str("id", out.ID).Msg("Failed to journal check")
		}
	}

	return out
}
