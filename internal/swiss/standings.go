package swiss

import (
	"cmp"
	"slices"
	"swiss-tournament/internal/domain"
)

type playerMetrics struct {
	wins, matches int
	opponents     map[int64]struct{}
}

// ComputeStandings folds the match history into one row per player and
// ranks the rows by wins, then opponent match wins, then player id.
//
// Matches naming a player outside of players are skipped for that player.
func ComputeStandings(players []domain.Player, matches []domain.Match) []domain.StandingsRow {
	metrics := make(map[int64]*playerMetrics, len(players))
	for _, p := range players {
		metrics[p.ID] = &playerMetrics{opponents: make(map[int64]struct{})}
	}

	for _, m := range matches {
		extractMatchMetrics(m, metrics)
	}

	rows := make([]domain.StandingsRow, 0, len(players))
	for _, p := range players {
		pm := metrics[p.ID]
		omw := 0
		for o := range pm.opponents {
			if om, ok := metrics[o]; ok {
				omw += om.wins
			}
		}
		rows = append(rows, domain.StandingsRow{
			PlayerID: p.ID,
			Name:     p.Name,
			Wins:     pm.wins,
			Matches:  pm.matches,
			OMW:      omw,
		})
	}

	slices.SortFunc(rows, compareRows)
	return rows
}

func extractMatchMetrics(m domain.Match, metrics map[int64]*playerMetrics) {
	if m.IsBye() {
		if pm, ok := metrics[m.Outcome.Winner]; ok {
			pm.wins++
			pm.matches++
		}
		return
	}

	p1, ok1 := metrics[m.Player1ID]
	p2, ok2 := metrics[m.Player2ID]
	if ok1 {
		p1.matches++
		p1.opponents[m.Player2ID] = struct{}{}
	}
	if ok2 {
		p2.matches++
		p2.opponents[m.Player1ID] = struct{}{}
	}

	if m.Outcome.Kind != domain.OutcomeDecisive {
		return
	}
	switch m.Outcome.Winner {
	case m.Player1ID:
		if ok1 {
			p1.wins++
		}
	case m.Player2ID:
		if ok2 {
			p2.wins++
		}
	}
}

func compareRows(a, b domain.StandingsRow) int {
	if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
		return c
	}
	if c := cmp.Compare(b.OMW, a.OMW); c != 0 {
		return c
	}
	return cmp.Compare(a.PlayerID, b.PlayerID)
}
