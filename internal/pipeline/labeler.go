package pipeline

import (
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/dataset"
	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// LabelTargets derives the prediction target for every row: whether the
// team won its chronologically next game in the same season. The last row
// of a team's season gets the sentinel TargetNone rather than an error;
// those rows stay in the table and are filtered from training and scoring
// downstream. The only future fact a target may encode is the immediate
// next game's outcome.
func LabelTargets(t *dataset.Table) []*Row {
	rows := make([]*Row, len(t.Rows))
	for i, game := range t.Rows {
		rows[i] = &Row{Game: game, Target: models.TargetNone}
	}

	_, groups := partitions(rows)
	for _, indices := range groups {
		for pos := 0; pos < len(indices)-1; pos++ {
			next := rows[indices[pos+1]]
			if next.Game.Won {
				rows[indices[pos]].Target = models.TargetWin
			} else {
				rows[indices[pos]].Target = models.TargetLoss
			}
		}
	}
	return rows
}

// CountSentinels returns how many rows carry the undefined-target sentinel.
func CountSentinels(rows []*Row) int {
	n := 0
	for _, row := range rows {
		if row.Target == models.TargetNone {
			n++
		}
	}
	return n
}
