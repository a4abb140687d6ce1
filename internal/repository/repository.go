package repository

import (
	"fmt"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game        GameRepository
	BacktestRun BacktestRunRepository
	Prediction  PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:        NewPostgresGameRepository(db),
		BacktestRun: NewPostgresBacktestRunRepository(db),
		Prediction:  NewPostgresPredictionRepository(db),
	}, nil
}
