package pipeline

import (
	"fmt"
	"sort"
)

// FeatureSet maps candidate column names onto matchup feature vectors.
// Candidates are every numeric, non-identifier, non-label column: the raw
// box-score metrics of the current game, the home flags of the current
// and the upcoming game, and both sides' rolling feature families. Rolling
// columns carry the window size as a suffix; the opponent family carries
// an additional "_opp" marker so raw and trailing-average versions of the
// same metric stay distinct.
type FeatureSet struct {
	Columns []string

	extract map[string]func(*Matchup) float64
}

// NewFeatureSet builds the candidate column set for the given raw metrics
// and window size. Column order is deterministic: flags first, then raw
// metrics, then the self rolling family, then the opponent rolling family,
// each alphabetically.
func NewFeatureSet(metrics []string, window int) *FeatureSet {
	fs := &FeatureSet{extract: map[string]func(*Matchup) float64{}}

	add := func(name string, fn func(*Matchup) float64) {
		fs.Columns = append(fs.Columns, name)
		fs.extract[name] = fn
	}

	add("home", func(m *Matchup) float64 { return flag(m.Self.Game.Home) })
	add("home_next", func(m *Matchup) float64 { return flag(m.Self.NextHome) })

	sorted := append([]string{}, metrics...)
	sort.Strings(sorted)

	for _, metric := range sorted {
		metric := metric
		add(metric, func(m *Matchup) float64 {
			v, _ := m.Self.Game.Stat(metric)
			return v
		})
	}

	rolling := append([]string{rollingHomeSeries, rollingWonSeries}, sorted...)
	sort.Strings(rolling)

	for _, metric := range rolling {
		metric := metric
		add(fmt.Sprintf("%s_%d", metric, window), func(m *Matchup) float64 {
			return m.Self.Rolling[metric]
		})
	}
	for _, metric := range rolling {
		metric := metric
		add(fmt.Sprintf("%s_%d_opp", metric, window), func(m *Matchup) float64 {
			return m.Opp.Rolling[metric]
		})
	}
	return fs
}

// Vector materializes the named columns for one matchup.
func (fs *FeatureSet) Vector(m *Matchup, columns []string) ([]float64, error) {
	v := make([]float64, len(columns))
	for i, name := range columns {
		fn, ok := fs.extract[name]
		if !ok {
			return nil, fmt.Errorf("unknown feature column %q", name)
		}
		v[i] = fn(m)
	}
	return v, nil
}

// Matrix materializes the named columns for every matchup, row-major.
func (fs *FeatureSet) Matrix(matchups []*Matchup, columns []string) ([][]float64, error) {
	X := make([][]float64, len(matchups))
	for i, m := range matchups {
		row, err := fs.Vector(m, columns)
		if err != nil {
			return nil, err
		}
		X[i] = row
	}
	return X, nil
}

func flag(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
