package signal

import (
	"fmt"
	"strings"

	"github.com/Alias1177/CrashSignal/models"
)

// Multiplier thresholds and window sizes of the risk-averse rule.
const (
	LowMultiplierThreshold  = 1.50
	HighMultiplierThreshold = 8.00
	RequiredLowStreak       = 7
	SafeHighWindow          = 20
)

// Rules is the threshold set an Evaluator applies.
type Rules struct {
	LowThreshold  float64
	HighThreshold float64
	LowStreak     int
	SafeWindow    int
}

// DefaultRules returns the fixed production rule set (7x < 1.50x, no 8.00x+ in 20).
func DefaultRules() Rules {
	return Rules{
		LowThreshold:  LowMultiplierThreshold,
		HighThreshold: HighMultiplierThreshold,
		LowStreak:     RequiredLowStreak,
		SafeWindow:    SafeHighWindow,
	}
}

// Validate checks that the streak window fits inside the safety window.
func (r Rules) Validate() error {
	if r.LowStreak <= 0 || r.SafeWindow <= 0 {
		return fmt.Errorf("invalid rules: streak %d and window %d must be positive", r.LowStreak, r.SafeWindow)
	}
	if r.LowStreak > r.SafeWindow {
		return fmt.Errorf("invalid rules: required low streak %d exceeds safety window %d", r.LowStreak, r.SafeWindow)
	}
	return nil
}

// Evaluator applies Rules to multiplier histories. It holds no mutable state.
type Evaluator struct {
	rules Rules
}

// NewEvaluator creates an evaluator for the given rules
func NewEvaluator(rules Rules) (*Evaluator, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{rules: rules}, nil
}

// Default returns an evaluator over DefaultRules.
func Default() *Evaluator {
	return &Evaluator{rules: DefaultRules()}
}

// Rules returns the rule set in use.
func (e *Evaluator) Rules() Rules {
	return e.rules
}

// Evaluate checks the two safety conditions against history (most recent last).
// Histories shorter than the safety window yield an insufficient-data verdict.
func (e *Evaluator) Evaluate(history []float64) models.Verdict {
	r := e.rules

	if len(history) < r.SafeWindow {
		return models.Verdict{
			Kind:    models.VerdictInsufficientData,
			Message: InsufficientDataMessage(r.SafeWindow),
		}
	}

	// Scan the trailing streak window backwards, stopping at the first
	// value that is not strictly below the threshold (NaN included)
	lowStreak := 0
	tail := history[len(history)-r.LowStreak:]
	for i := len(tail) - 1; i >= 0; i-- {
		if !(tail[i] < r.LowThreshold) {
			break
		}
		lowStreak++
	}
	lowStreakReady := lowStreak >= r.LowStreak

	highHit := false
	for _, m := range history[len(history)-r.SafeWindow:] {
		if m >= r.HighThreshold {
			highHit = true
			break
		}
	}

	v := models.Verdict{
		LowStreak: lowStreak,
		HighHit:   highHit,
	}

	if lowStreakReady && !highHit {
		v.Kind = models.VerdictSignal
		v.IsSignal = true
		v.Message = fmt.Sprintf(
			"🎯 HIGH-TARGET SIGNAL! BET NOW! 🎯\n\n"+
				"Conditions Met:\n"+
				"  1. Low Streak: %d consecutive rounds < %.2fx.\n"+
				"  2. Safety Check: NO multiplier >= %.2fx in the last %d rounds.\n\n"+
				"ACTION: Target 3.00x (Aggressive) or 2.00x (Moderate).",
			lowStreak, r.LowThreshold, r.HighThreshold, r.SafeWindow,
		)
		return v
	}

	var reasons []string
	if !lowStreakReady {
		reasons = append(reasons, fmt.Sprintf("🔴 Low Streak NOT Ready (only %d of %d below %.2fx).",
			lowStreak, r.LowStreak, r.LowThreshold))
	}
	if highHit {
		reasons = append(reasons, fmt.Sprintf("🔴 High Variance Detected (a %.2fx+ hit occurred in the last %d rounds).",
			r.HighThreshold, r.SafeWindow))
	}

	v.Kind = models.VerdictNoSignal
	v.Message = "❌ NO SIGNAL. DO NOT BET.\n\n" +
		"Reason(s) to Wait:\n* " + strings.Join(reasons, "\n* ") + "\n" +
		"Action: Wait for safety conditions to align."
	return v
}

// InsufficientDataMessage is the verdict text for histories shorter than window.
func InsufficientDataMessage(window int) string {
	return fmt.Sprintf("🛑 ERROR: Need at least %d rounds of history for safe analysis.", window)
}

// Evaluate runs the default rule set.
func Evaluate(history []float64) models.Verdict {
	return Default().Evaluate(history)
}
