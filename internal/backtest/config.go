package backtest

import (
	"fmt"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
)

// Fit scopes for the pre-backtest scaler/selector fit. "pretrain"
// restricts fitting to seasons strictly before the first backtested
// season; "full" replicates the looser whole-dataset fit and is a known
// lookahead relaxation kept only for comparison runs.
const (
	FitScopePretrain = "pretrain"
	FitScopeFull     = "full"
)

// Config holds the walk-forward parameters: the season index to start
// testing at, the stride between tested seasons, and the fit scope for
// upstream scaling and selection.
type Config struct {
	Start    int
	Step     int
	FitScope string
}

// DefaultConfig mirrors the historical defaults: skip the first two
// seasons, test every season after, fit scaling/selection on the pretrain
// window only.
func DefaultConfig() Config {
	return Config{Start: 2, Step: 1, FitScope: FitScopePretrain}
}

// FromConfig converts the application pipeline config into a backtest
// config.
func FromConfig(cfg *config.PipelineConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("pipeline config is required")
	}
	bt := Config{
		Start:    cfg.BacktestStart,
		Step:     cfg.BacktestStep,
		FitScope: cfg.FitScope,
	}
	return bt, bt.Validate()
}

// Validate checks the walk-forward parameters.
func (c Config) Validate() error {
	if c.Start < 1 {
		return fmt.Errorf("backtest start must be at least 1 so every tested season has training history")
	}
	if c.Step <= 0 {
		return fmt.Errorf("backtest step must be positive")
	}
	switch c.FitScope {
	case FitScopePretrain, FitScopeFull:
	default:
		return fmt.Errorf("unknown fit scope %q", c.FitScope)
	}
	return nil
}
