package models

import (
	"fmt"
	"math"
	"time"
)

// Target class values. TargetNone marks a row whose outcome is undefined
// (a team's final game of a season has no next game to predict) and sits
// outside the valid class set on purpose.
const (
	TargetLoss = 0
	TargetWin  = 1
	TargetNone = 2
)

// GameRow represents one team's participation in one game. Every game
// produces exactly two rows, one per participant, with identical date and
// season and mirrored team/opponent.
type GameRow struct {
	Team     string    `db:"team" json:"team" validate:"required"`
	Opponent string    `db:"opponent" json:"opponent" validate:"required"`
	Season   int       `db:"season" json:"season" validate:"required,gt=0"`
	Date     time.Time `db:"date" json:"date" validate:"required"`
	Home     bool      `db:"home" json:"home"`
	Won      bool      `db:"won" json:"won"`

	// Stats holds the numeric box-score metrics for this row. A NaN value
	// marks a metric that could not be parsed upstream; a key absent from
	// the map is treated the same way.
	Stats map[string]float64 `db:"stats" json:"stats"`
}

// Validate checks the structural fields downstream ordering logic depends
// on. A row failing this check aborts the pipeline.
func (g *GameRow) Validate() error {
	if g == nil {
		return fmt.Errorf("game row is nil")
	}
	if g.Team == "" {
		return fmt.Errorf("game row is missing team")
	}
	if g.Opponent == "" {
		return fmt.Errorf("game row for %s is missing opponent", g.Team)
	}
	if g.Date.IsZero() {
		return fmt.Errorf("game row for %s is missing date", g.Team)
	}
	if g.Season <= 0 {
		return fmt.Errorf("game row for %s on %s is missing season", g.Team, g.Date.Format("2006-01-02"))
	}
	return nil
}

// Stat returns the named metric and whether it holds a usable value.
func (g *GameRow) Stat(name string) (float64, bool) {
	v, ok := g.Stats[name]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
