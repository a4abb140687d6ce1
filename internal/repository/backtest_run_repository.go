package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// PostgresBacktestRunRepository implements BacktestRunRepository for PostgreSQL
type PostgresBacktestRunRepository struct {
	db *database.DB
}

// NewPostgresBacktestRunRepository creates a new backtest run repository
func NewPostgresBacktestRunRepository(db *database.DB) BacktestRunRepository {
	return &PostgresBacktestRunRepository{db: db}
}

// Create inserts a new backtest run
func (r *PostgresBacktestRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (id, created_at, rolling_window, selected_features,
		                           backtest_start, backtest_step, fit_scope, accuracy)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.CreatedAt, run.RollingWindow, run.SelectedFeatures,
		run.BacktestStart, run.BacktestStep, run.FitScope, run.Accuracy,
	)
	if err != nil {
		return fmt.Errorf("failed to create backtest run: %w", err)
	}

	return nil
}

// GetByID retrieves a backtest run by ID
func (r *PostgresBacktestRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	query := `
		SELECT id, created_at, rolling_window, selected_features,
		       backtest_start, backtest_step, fit_scope, accuracy
		FROM backtest_runs WHERE id = $1
	`

	run := &models.BacktestRun{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.CreatedAt, &run.RollingWindow, &run.SelectedFeatures,
		&run.BacktestStart, &run.BacktestStep, &run.FitScope, &run.Accuracy,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest run: %w", err)
	}

	return run, nil
}

// GetLatest retrieves the most recently created backtest run
func (r *PostgresBacktestRunRepository) GetLatest(ctx context.Context) (*models.BacktestRun, error) {
	query := `
		SELECT id, created_at, rolling_window, selected_features,
		       backtest_start, backtest_step, fit_scope, accuracy
		FROM backtest_runs
		ORDER BY created_at DESC
		LIMIT 1
	`

	run := &models.BacktestRun{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(
		&run.ID, &run.CreatedAt, &run.RollingWindow, &run.SelectedFeatures,
		&run.BacktestStart, &run.BacktestStep, &run.FitScope, &run.Accuracy,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest backtest run: %w", err)
	}

	return run, nil
}
