package database

import (
	"context"
	"fmt"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/config"
)

// schema holds the DDL for the three tables the predictor persists:
// raw game rows, backtest runs, and the per-game predictions each
// run produced.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id          BIGSERIAL PRIMARY KEY,
		team        TEXT NOT NULL,
		opponent    TEXT NOT NULL,
		season      INT NOT NULL,
		game_date   DATE NOT NULL,
		home        BOOLEAN NOT NULL,
		won         BOOLEAN NOT NULL,
		stats       JSONB NOT NULL DEFAULT '{}'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (team, game_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_season ON games (season)`,
	`CREATE INDEX IF NOT EXISTS idx_games_team_season ON games (team, season, game_date)`,
	`CREATE TABLE IF NOT EXISTS backtest_runs (
		id                UUID PRIMARY KEY,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		rolling_window    INT NOT NULL,
		selected_features TEXT[] NOT NULL,
		backtest_start    INT NOT NULL,
		backtest_step     INT NOT NULL,
		fit_scope         TEXT NOT NULL,
		accuracy          DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id         BIGSERIAL PRIMARY KEY,
		run_id     UUID NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
		season     INT NOT NULL,
		team       TEXT NOT NULL,
		game_date  DATE NOT NULL,
		actual     SMALLINT NOT NULL,
		predicted  SMALLINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions (run_id)`,
}

// Initialize creates a database connection pool and ensures the schema
// exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return db, nil
}
