// Package helpers provides shared fixtures for package tests.
package helpers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// SeasonSpec describes one synthetic season for a pair of teams.
type SeasonSpec struct {
	Season    int
	Games     int
	FirstDate time.Time
}

// GameStats builds a stats map from metric name/value pairs.
func GameStats(pairs ...interface{}) map[string]float64 {
	stats := make(map[string]float64, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case float64:
			stats[name] = v
		case int:
			stats[name] = float64(v)
		}
	}
	return stats
}

// TwoTeamSeason builds the paired game rows of one synthetic season in
// which teamA beats teamB every game. Both sides of every game are
// emitted, so the matchup self-join always finds its counterpart. The
// "skill" metric separates the teams; "noise" does not.
func TwoTeamSeason(t *testing.T, teamA, teamB string, spec SeasonSpec) []*models.GameRow {
	t.Helper()
	require.Positive(t, spec.Games, "season needs at least one game")

	first := spec.FirstDate
	if first.IsZero() {
		first = time.Date(spec.Season-1, time.October, 20, 0, 0, 0, 0, time.UTC)
	}

	rows := make([]*models.GameRow, 0, spec.Games*2)
	for i := 0; i < spec.Games; i++ {
		date := first.AddDate(0, 0, i*2)
		home := i%2 == 0

		rows = append(rows, &models.GameRow{
			Team:     teamA,
			Opponent: teamB,
			Season:   spec.Season,
			Date:     date,
			Home:     home,
			Won:      true,
			Stats:    GameStats("skill", 10.0, "noise", float64(i%3)),
		})
		rows = append(rows, &models.GameRow{
			Team:     teamB,
			Opponent: teamA,
			Season:   spec.Season,
			Date:     date,
			Home:     !home,
			Won:      false,
			Stats:    GameStats("skill", 2.0, "noise", float64((i+1)%3)),
		})
	}
	return rows
}

// LeagueFixture builds the described seasons for one pair of teams.
func LeagueFixture(t *testing.T, teamA, teamB string, specs ...SeasonSpec) []*models.GameRow {
	t.Helper()
	var rows []*models.GameRow
	for _, spec := range specs {
		rows = append(rows, TwoTeamSeason(t, teamA, teamB, spec)...)
	}
	return rows
}

// WithMissingStat returns a copy of the row with one metric set to NaN.
func WithMissingStat(row *models.GameRow, metric string) *models.GameRow {
	clone := *row
	clone.Stats = make(map[string]float64, len(row.Stats)+1)
	for k, v := range row.Stats {
		clone.Stats[k] = v
	}
	clone.Stats[metric] = math.NaN()
	return &clone
}

// MockScoringServer creates a mock HTTP server implementing the remote
// scoring service's train and predict endpoints. The served model always
// predicts the constant answer.
func MockScoringServer(t *testing.T, answer int) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/train":
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"model_id": "model-test-001",
			})

		case "/v1/predict":
			var req struct {
				Features [][]float64 `json:"features"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)

			predictions := make([]int, len(req.Features))
			for i := range predictions {
				predictions[i] = answer
			}

			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"predictions": predictions,
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	return httptest.NewServer(handler)
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
