package pipeline

// Matchup pairs a team's upcoming-game context with the row of the
// opponent it is about to face: both sides agree on the shared future
// date, so the two rolling feature families describe the same game from
// each participant's perspective. The outcome of that game never appears
// on either side.
type Matchup struct {
	Self *Row
	Opp  *Row
}

// LinkNextGame attaches each row's own next-game identity (home flag,
// date, opponent) by the same strictly-forward shift discipline as the
// labeler, within the (team, season) partition. The last retained row of
// a partition has no next game; the second return value counts those.
func LinkNextGame(rows []*Row) ([]*Row, int) {
	out := make([]*Row, len(rows))
	for i, src := range rows {
		copied := *src
		out[i] = &copied
	}

	withoutNext := 0
	_, groups := partitions(out)
	for _, indices := range groups {
		for pos, idx := range indices {
			if pos == len(indices)-1 {
				withoutNext++
				continue
			}
			next := out[indices[pos+1]].Game
			out[idx].NextHome = next.Home
			out[idx].NextDate = next.Date
			out[idx].NextOpponent = next.Opponent
			out[idx].HasNext = true
		}
	}
	return out, withoutNext
}

type matchupKey struct {
	team string
	date int64
}

// LinkMatchups performs the four-key self-join: row A is matched with the
// row B for which B's team is A's next opponent and both rows point at
// the same future date. The join is a single index build plus O(1)
// lookups, not a nested scan. Rows with no reciprocal counterpart are
// dropped; the second return value counts them.
func LinkMatchups(rows []*Row) ([]*Matchup, int) {
	// Index by (next opponent, next date): the counterpart of A is the
	// row whose upcoming game is against A on A's next date.
	index := make(map[matchupKey]*Row, len(rows))
	for _, row := range rows {
		if !row.HasNext {
			continue
		}
		k := matchupKey{team: row.NextOpponent, date: row.NextDate.Unix()}
		if _, exists := index[k]; !exists {
			index[k] = row
		}
	}

	matchups := make([]*Matchup, 0, len(rows))
	unmatched := 0
	for _, row := range rows {
		if !row.HasNext {
			unmatched++
			continue
		}
		counterpart, ok := index[matchupKey{team: row.Game.Team, date: row.NextDate.Unix()}]
		if !ok {
			unmatched++
			continue
		}
		matchups = append(matchups, &Matchup{Self: row, Opp: counterpart})
	}
	return matchups, unmatched
}
