package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/database"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

const errScanGame = "failed to scan game: %w"

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// encodeStats serializes box-score stats as JSON. NaN marks a missing
// value in memory and has no JSON representation, so those entries are
// omitted and absence means missing on the way back out.
func encodeStats(stats map[string]float64) ([]byte, error) {
	clean := make(map[string]float64, len(stats))
	for name, value := range stats {
		if math.IsNaN(value) {
			continue
		}
		clean[name] = value
	}
	return json.Marshal(clean)
}

// Upsert inserts a game row, replacing any existing row for the same
// team and date.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.GameRow) error {
	stats, err := encodeStats(game.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode game stats: %w", err)
	}

	query := `
		INSERT INTO games (team, opponent, season, game_date, home, won, stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (team, game_date) DO UPDATE SET
			opponent = EXCLUDED.opponent,
			season = EXCLUDED.season,
			home = EXCLUDED.home,
			won = EXCLUDED.won,
			stats = EXCLUDED.stats
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		game.Team, game.Opponent, game.Season, game.Date, game.Home, game.Won, stats,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}

	return nil
}

// UpsertBatch inserts game rows in a single transaction and returns the
// number of rows written.
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.GameRow) (int, error) {
	written := 0
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO games (team, opponent, season, game_date, home, won, stats)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (team, game_date) DO UPDATE SET
				opponent = EXCLUDED.opponent,
				season = EXCLUDED.season,
				home = EXCLUDED.home,
				won = EXCLUDED.won,
				stats = EXCLUDED.stats
		`
		for _, game := range games {
			stats, err := encodeStats(game.Stats)
			if err != nil {
				return fmt.Errorf("failed to encode game stats: %w", err)
			}
			if _, err := tx.Exec(ctx, query,
				game.Team, game.Opponent, game.Season, game.Date, game.Home, game.Won, stats,
			); err != nil {
				return fmt.Errorf("failed to upsert game within transaction: %w", err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// GetBySeason retrieves all game rows for a season in chronological order
func (r *PostgresGameRepository) GetBySeason(ctx context.Context, season int) ([]*models.GameRow, error) {
	query := `
		SELECT team, opponent, season, game_date, home, won, stats
		FROM games
		WHERE season = $1
		ORDER BY game_date ASC, team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetAll retrieves every game row in chronological order
func (r *PostgresGameRepository) GetAll(ctx context.Context) ([]*models.GameRow, error) {
	query := `
		SELECT team, opponent, season, game_date, home, won, stats
		FROM games
		ORDER BY game_date ASC, team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Seasons retrieves the distinct seasons present, ascending
func (r *PostgresGameRepository) Seasons(ctx context.Context) ([]int, error) {
	query := "SELECT DISTINCT season FROM games ORDER BY season ASC"

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []int
	for rows.Next() {
		var season int
		if err := rows.Scan(&season); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		seasons = append(seasons, season)
	}

	return seasons, rows.Err()
}

func scanGames(rows pgx.Rows) ([]*models.GameRow, error) {
	var games []*models.GameRow
	for rows.Next() {
		game := &models.GameRow{}
		var stats []byte
		err := rows.Scan(
			&game.Team, &game.Opponent, &game.Season, &game.Date,
			&game.Home, &game.Won, &stats,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		if err := json.Unmarshal(stats, &game.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode game stats: %w", err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
