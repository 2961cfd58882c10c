package models

import "context"

// Explainer produces displayable risk commentary for a verdict.
type Explainer interface {
	Explain(ctx context.Context, history []float64, verdictText string) Commentary
}

// Journal records completed checks.
type Journal interface {
	RecordCheck(ctx context.Context, rec CheckRecord) error
}
