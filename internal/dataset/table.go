// Package dataset holds the in-memory game record store consumed by the
// prediction pipeline: one row per (team, game), chronologically ordered,
// with the numeric box-score metric set attached to each row.
package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// DefaultImputedMetrics lists the percentage metrics that legitimately come
// back undefined (a zero-attempt game) and are imputed to 0.0 instead of
// being dropped with the rest of the incomplete columns.
var DefaultImputedMetrics = []string{"ft%", "ft%_max", "ft%_opp", "ft%_max_opp"}

// Table is the game record store: a fully materialized, immutable-by-
// convention set of GameRows plus the ordered metric column list shared by
// every row. Rows are sorted by date ascending with team as a stable
// tiebreak so order-dependent stages behave identically run to run.
type Table struct {
	Rows    []*models.GameRow
	Metrics []string
}

// New validates the rows, collects the metric column set, and sorts the
// table chronologically. Structurally malformed rows fail fast; missing
// metric values do not.
func New(rows []*models.GameRow) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}
	seen := map[string]struct{}{}
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("invalid game row at index %d: %w", i, err)
		}
		for name := range row.Stats {
			seen[name] = struct{}{}
		}
	}

	metrics := make([]string, 0, len(seen))
	for name := range seen {
		metrics = append(metrics, name)
	}
	sort.Strings(metrics)

	t := &Table{Rows: rows, Metrics: metrics}
	t.sortChronological()
	return t, nil
}

// sortChronological orders rows by date ascending, breaking date ties by
// team and then season so the order is total and stable.
func (t *Table) sortChronological() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.Season < b.Season
	})
}

// Seasons returns the distinct seasons present, ascending.
func (t *Table) Seasons() []int {
	seen := map[int]struct{}{}
	for _, row := range t.Rows {
		seen[row.Season] = struct{}{}
	}
	seasons := make([]int, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Ints(seasons)
	return seasons
}

// ImputePercentages replaces missing values of the named metrics with 0.0
// and returns how many cells were imputed. It must run before
// DropIncompleteMetrics or the columns it rescues will already be gone.
func (t *Table) ImputePercentages(metrics ...string) int {
	if len(metrics) == 0 {
		metrics = DefaultImputedMetrics
	}
	imputed := 0
	for _, row := range t.Rows {
		for _, name := range metrics {
			v, ok := row.Stats[name]
			if !ok || math.IsNaN(v) {
				if row.Stats == nil {
					row.Stats = map[string]float64{}
				}
				row.Stats[name] = 0.0
				imputed++
			}
		}
	}
	return imputed
}

// DropIncompleteMetrics removes every metric column that has at least one
// missing value anywhere in the dataset and returns the dropped names.
// The policy is deliberately global: a column is either fully usable or
// excluded from the candidate set entirely.
func (t *Table) DropIncompleteMetrics() []string {
	incomplete := map[string]struct{}{}
	for _, name := range t.Metrics {
		for _, row := range t.Rows {
			if _, ok := row.Stat(name); !ok {
				incomplete[name] = struct{}{}
				break
			}
		}
	}
	if len(incomplete) == 0 {
		return nil
	}

	kept := make([]string, 0, len(t.Metrics)-len(incomplete))
	dropped := make([]string, 0, len(incomplete))
	for _, name := range t.Metrics {
		if _, bad := incomplete[name]; bad {
			dropped = append(dropped, name)
			continue
		}
		kept = append(kept, name)
	}
	t.Metrics = kept

	for _, row := range t.Rows {
		for name := range incomplete {
			delete(row.Stats, name)
		}
	}
	return dropped
}
