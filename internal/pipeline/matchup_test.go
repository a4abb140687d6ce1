package pipeline

import (
	"testing"

	"github.com/armaan-grewal/NBA-Game-Predictor/internal/models"
)

// pairedRows builds both sides of a short schedule between two teams:
// games on days 1, 3, and 5.
func pairedRows(t *testing.T) []*Row {
	t.Helper()
	var rows []*Row
	for i, dayNum := range []int{1, 3, 5} {
		rows = append(rows,
			&Row{Game: &models.GameRow{
				Team: "BOS", Opponent: "NYK", Season: 2023,
				Date: testDay(dayNum), Home: i%2 == 0, Won: true,
			}},
			&Row{Game: &models.GameRow{
				Team: "NYK", Opponent: "BOS", Season: 2023,
				Date: testDay(dayNum), Home: i%2 != 0, Won: false,
			}},
		)
	}
	return rows
}

func TestLinkNextGame(t *testing.T) {
	rows := pairedRows(t)

	linked, withoutNext := LinkNextGame(rows)
	if withoutNext != 2 {
		t.Fatalf("expected 2 partition-final rows, got %d", withoutNext)
	}

	first := linked[0]
	if !first.HasNext {
		t.Fatal("first BOS game should have a next game")
	}
	if first.NextOpponent != "NYK" || !first.NextDate.Equal(testDay(3)) {
		t.Errorf("unexpected next-game identity: %s on %s", first.NextOpponent, first.NextDate)
	}
	if first.NextHome {
		t.Error("next game should be away for BOS")
	}

	// Inputs are not mutated.
	if rows[0].HasNext {
		t.Error("LinkNextGame mutated its input")
	}
}

func TestLinkMatchupsPairsReciprocalRows(t *testing.T) {
	linked, _ := LinkNextGame(pairedRows(t))

	matchups, unmatched := LinkMatchups(linked)
	// Two partition-final rows have no next game.
	if unmatched != 2 {
		t.Errorf("expected 2 unmatched rows, got %d", unmatched)
	}
	if len(matchups) != 4 {
		t.Fatalf("expected 4 matchups, got %d", len(matchups))
	}

	for _, m := range matchups {
		if m.Self.NextOpponent != m.Opp.Game.Team {
			t.Errorf("matchup opponent mismatch: next opponent %s, paired with %s",
				m.Self.NextOpponent, m.Opp.Game.Team)
		}
		if !m.Self.NextDate.Equal(m.Opp.NextDate) {
			t.Errorf("matchup dates disagree: %s vs %s", m.Self.NextDate, m.Opp.NextDate)
		}
		if m.Opp.NextOpponent != m.Self.Game.Team {
			t.Errorf("pairing is not reciprocal: opp's next opponent is %s, want %s",
				m.Opp.NextOpponent, m.Self.Game.Team)
		}
	}
}

func TestLinkMatchupsDropsUnmatchedRows(t *testing.T) {
	// BOS's next game is against NYK, but NYK's schedule never points
	// back: no counterpart exists.
	rows := []*Row{
		{Game: &models.GameRow{Team: "BOS", Opponent: "NYK", Season: 2023, Date: testDay(1), Won: true}},
		{Game: &models.GameRow{Team: "BOS", Opponent: "NYK", Season: 2023, Date: testDay(3), Won: true}},
	}

	linked, _ := LinkNextGame(rows)
	matchups, unmatched := LinkMatchups(linked)
	// Both BOS rows drop: the first for lack of a reciprocal NYK row,
	// the second for having no next game at all.
	if len(matchups) != 0 {
		t.Errorf("expected no matchups, got %d", len(matchups))
	}
	if unmatched != 2 {
		t.Errorf("expected 2 unmatched rows, got %d", unmatched)
	}
}
