package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRow pairs the predicted and actual outcome of one team's
// upcoming game, produced by the walk-forward backtester for seasons at or
// after the backtest start offset.
type PredictionRow struct {
	Season    int       `db:"season" json:"season"`
	Team      string    `db:"team" json:"team"`
	GameDate  time.Time `db:"game_date" json:"game_date"`
	Actual    int       `db:"actual" json:"actual"`
	Predicted int       `db:"predicted" json:"predicted"`
}

// BacktestRun records the configuration and headline result of one
// walk-forward backtest, keyed for persistence.
type BacktestRun struct {
	ID               uuid.UUID `db:"id" json:"id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	RollingWindow    int       `db:"rolling_window" json:"rolling_window"`
	SelectedFeatures []string  `db:"selected_features" json:"selected_features"`
	BacktestStart    int       `db:"backtest_start" json:"backtest_start"`
	BacktestStep     int       `db:"backtest_step" json:"backtest_step"`
	FitScope         string    `db:"fit_scope" json:"fit_scope"`
	Accuracy         float64   `db:"accuracy" json:"accuracy"`
}
