// Package model provides the scorable linear classifier, feature scaling,
// and forward sequential feature selection used by the backtester. The
// classifier is pluggable: anything satisfying Classifier can sit behind
// the selector and the walk-forward loop.
package model

import "context"

// Classifier is a scorable win/loss model. Fit receives the training
// matrix and binary targets; Predict returns one class per input row.
// Implementations must be safe to refit from scratch on every call.
type Classifier interface {
	Fit(ctx context.Context, X [][]float64, y []int) error
	Predict(ctx context.Context, X [][]float64) ([]int, error)
}

// Factory builds a fresh classifier. The backtester refits per season and
// the selector refits per fold, so both take a factory rather than a
// shared fitted instance.
type Factory func() Classifier
