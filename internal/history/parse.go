package history

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrEmptyInput is returned when the submission holds no tokens at all.
var ErrEmptyInput = errors.New("empty multiplier history")

// ParseError reports a token that is not a valid number. One bad token
// rejects the whole submission.
type ParseError struct {
	Token    string
	Position int // 1-based token index
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("value #%d %q is not a valid number", e.Position, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse splits raw on any mix of commas and whitespace and converts every
// token to a float. Order is preserved, most recent round last.
func Parse(raw string) ([]float64, error) {
	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	values := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ParseError{Token: tok, Position: i + 1, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// Format renders values the way they are embedded in prompts: [1.2, 3, 1.05].
func Format(values []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
