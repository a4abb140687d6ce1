package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// GameRepository defines operations for game row persistence
type GameRepository interface {
	Upsert(ctx context.Context, game *models.GameRow) error
	UpsertBatch(ctx context.Context, games []*models.GameRow) (int, error)
	GetBySeason(ctx context.Context, season int) ([]*models.GameRow, error)
	GetAll(ctx context.Context) ([]*models.GameRow, error)
	Seasons(ctx context.Context) ([]int, error)
}

// BacktestRunRepository defines operations for backtest run persistence
type BacktestRunRepository interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error)
	GetLatest(ctx context.Context) (*models.BacktestRun, error)
}

// PredictionRepository defines operations for prediction persistence
type PredictionRepository interface {
	CreateBatch(ctx context.Context, runID uuid.UUID, predictions []*models.PredictionRow) error
	GetByRun(ctx context.Context, runID uuid.UUID) ([]*models.PredictionRow, error)
}
