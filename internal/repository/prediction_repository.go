package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// CreateBatch inserts the predictions of a backtest run in one transaction
func (r *PostgresPredictionRepository) CreateBatch(ctx context.Context, runID uuid.UUID, predictions []*models.PredictionRow) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO predictions (run_id, season, team, game_date, actual, predicted)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, p := range predictions {
			if _, err := tx.Exec(ctx, query,
				runID, p.Season, p.Team, p.GameDate, p.Actual, p.Predicted,
			); err != nil {
				return fmt.Errorf("failed to create prediction within transaction: %w", err)
			}
		}
		return nil
	})
}

// GetByRun retrieves the predictions of a backtest run in season order
func (r *PostgresPredictionRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]*models.PredictionRow, error) {
	query := `
		SELECT season, team, game_date, actual, predicted
		FROM predictions
		WHERE run_id = $1
		ORDER BY season ASC, game_date ASC, team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.PredictionRow
	for rows.Next() {
		p := &models.PredictionRow{}
		if err := rows.Scan(&p.Season, &p.Team, &p.GameDate, &p.Actual, &p.Predicted); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
