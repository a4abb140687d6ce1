package pipeline

// Synthetic series included in the rolling window alongside the box-score
// metrics: trailing win rate and trailing home-game share.
const (
	rollingWonSeries  = "won"
	rollingHomeSeries = "home"
)

// AddRollingFeatures computes, for every row with at least window prior
// games in the same (team, season) partition, the arithmetic mean of each
// metric over exactly those prior games. The current game's own stats are
// never part of its own window: the window ends at the previous game.
// Rows with insufficient history are dropped; the second return value is
// how many were.
//
// Only metrics present on every surviving row are meaningful here, which
// the dataset's global missing-column policy guarantees upstream.
func AddRollingFeatures(rows []*Row, metrics []string, window int) ([]*Row, int) {
	if window <= 0 {
		window = 10
	}

	out := make([]*Row, 0, len(rows))
	dropped := 0

	keys, groups := partitions(rows)
	kept := map[int]*Row{}
	for _, key := range keys {
		indices := groups[key]
		for pos, idx := range indices {
			if pos < window {
				dropped++
				continue
			}
			rolled := make(map[string]float64, len(metrics)+2)
			for _, metric := range metrics {
				sum := 0.0
				for back := pos - window; back < pos; back++ {
					v, _ := rows[indices[back]].Game.Stat(metric)
					sum += v
				}
				rolled[metric] = sum / float64(window)
			}
			won, home := 0.0, 0.0
			for back := pos - window; back < pos; back++ {
				prior := rows[indices[back]].Game
				if prior.Won {
					won++
				}
				if prior.Home {
					home++
				}
			}
			rolled[rollingWonSeries] = won / float64(window)
			rolled[rollingHomeSeries] = home / float64(window)

			src := rows[idx]
			kept[idx] = &Row{Game: src.Game, Target: src.Target, Rolling: rolled}
		}
	}

	// Recombine in the original chronological order.
	for i := range rows {
		if row, ok := kept[i]; ok {
			out = append(out, row)
		}
	}
	return out, dropped
}
