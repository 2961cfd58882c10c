package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/CrashSignal/internal/checker"
	"github.com/Alias1177/CrashSignal/internal/history"
	"github.com/Alias1177/CrashSignal/internal/signal"
)

// Kind is the visual treatment of a block.
type Kind string

const (
	KindPositive Kind = "positive"
	KindNegative Kind = "negative"
	KindWarning  Kind = "warning"
	KindInfo     Kind = "info"
)

// Block is one displayable unit of output.
type Block struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

const (
	EmptyInputMessage   = "Please paste the multiplier history to analyze."
	InvalidInputMessage = "❌ Error: Please ensure all pasted values are valid numbers."
	CommentaryTitle     = "AI Risk Assessment"
)

// Caption describes the fixed rule parameters.
var Caption = fmt.Sprintf("The core logic uses fixed parameters (%dx < %.2fx, no %.2fx+ in %d).",
	signal.RequiredLowStreak, signal.LowMultiplierThreshold,
	signal.HighMultiplierThreshold, signal.SafeHighWindow)

// Outcome renders the verdict block followed by the commentary block, or
// the short-history notice when commentary was skipped.
func Outcome(o *checker.Outcome) []Block {
	verdict := Block{Kind: KindNegative, Body: o.Verdict.Message}
	if o.Verdict.IsSignal {
		verdict.Kind = KindPositive
	}

	second := Block{Kind: KindInfo, Body: o.Notice}
	if o.CommentaryShown() {
		second.Title = CommentaryTitle
		second.Body = o.Commentary.Text
	}
	return []Block{verdict, second}
}

// Rejection renders an input that could not be parsed.
func Rejection(err error) Block {
	if errors.Is(err, history.ErrEmptyInput) {
		return Block{Kind: KindWarning, Body: EmptyInputMessage}
	}
	var perr *history.ParseError
	if errors.As(err, &perr) {
		return Block{Kind: KindWarning, Body: fmt.Sprintf("%s (%s)", InvalidInputMessage, perr.Error())}
	}
	return Block{Kind: KindWarning, Body: InvalidInputMessage}
}

// Text renders blocks as plain text separated by blank lines.
func Text(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Body == "" && b.Title == "" {
			continue
		}
		if b.Title != "" {
			parts = append(parts, b.Title+":\n"+b.Body)
		} else {
			parts = append(parts, b.Body)
		}
	}
	return strings.Join(parts, "\n\n")
}
