// Package pipeline implements the leakage-free feature engineering stages:
// target labeling, trailing-window aggregation, and matchup linking. Every
// stage materializes a new slice from its immutable input; nothing is
// mutated in place.
package pipeline

import (
	"sort"
	"time"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// Row carries one team-game through the pipeline. Stages accrete fields:
// the labeler sets Target, the aggregator sets Rolling, the linker sets
// the Next* trio.
type Row struct {
	Game   *models.GameRow
	Target int

	// Rolling holds the trailing-window means keyed by metric name,
	// including the synthetic "won" and "home" series. Nil until the
	// aggregator has seen a full window of prior in-season games.
	Rolling map[string]float64

	// Identity of this team's next game in the same season. Meaningful
	// only when HasNext is true.
	NextHome     bool
	NextDate     time.Time
	NextOpponent string
	HasNext      bool
}

type partitionKey struct {
	team   string
	season int
}

// partitions groups row indices by (team, season), preserving the input's
// chronological order inside each group and returning the group keys in a
// deterministic order.
func partitions(rows []*Row) ([]partitionKey, map[partitionKey][]int) {
	groups := map[partitionKey][]int{}
	keys := []partitionKey{}
	for i, row := range rows {
		k := partitionKey{team: row.Game.Team, season: row.Game.Season}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], i)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].season < keys[j].season
	})
	return keys, groups
}
