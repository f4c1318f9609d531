package swiss

import (
	"swiss-tournament/internal/domain"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newPlayers(names ...string) []domain.Player {
	players := make([]domain.Player, len(names))
	for i, n := range names {
		players[i] = domain.Player{ID: int64(i + 1), Name: n, TournamentID: 1}
	}
	return players
}

func decisive(p1, p2, winner int64) domain.Match {
	return domain.NewMatch(1, p1, p2, domain.Decisive(winner))
}

func draw(p1, p2 int64) domain.Match {
	return domain.NewMatch(1, p1, p2, domain.Draw())
}

func TestStandingsWithoutMatches(t *testing.T) {
	players := newPlayers("A", "B", "C", "D")

	got := ComputeStandings(players, nil)
	want := []domain.StandingsRow{
		{PlayerID: 1, Name: "A"},
		{PlayerID: 2, Name: "B"},
		{PlayerID: 3, Name: "C"},
		{PlayerID: 4, Name: "D"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestStandingsAfterFirstRound(t *testing.T) {
	players := newPlayers("A", "B", "C", "D")
	matches := []domain.Match{decisive(1, 2, 1), decisive(3, 4, 3)}

	got := ComputeStandings(players, matches)
	want := []domain.StandingsRow{
		{PlayerID: 1, Name: "A", Wins: 1, Matches: 1, OMW: 0},
		{PlayerID: 3, Name: "C", Wins: 1, Matches: 1, OMW: 0},
		{PlayerID: 2, Name: "B", Wins: 0, Matches: 1, OMW: 1},
		{PlayerID: 4, Name: "D", Wins: 0, Matches: 1, OMW: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestStandingsOMWBreaksTies(t *testing.T) {
	players := newPlayers("A", "B", "C", "D")
	// 4 beat 3, 1 beat 2, 3 beat 2, 4 beat 1: 4 has two wins, 1 and 3 one each.
	matches := []domain.Match{
		decisive(3, 4, 4),
		decisive(1, 2, 1),
		decisive(2, 3, 3),
		decisive(1, 4, 4),
	}

	got := ComputeStandings(players, matches)
	ids := make([]int64, len(got))
	for i, r := range got {
		ids[i] = r.PlayerID
	}
	// 1: opponents 2 (0) + 4 (2) = 2. 3: opponents 4 (2) + 2 (0) = 2.
	// Both tie on OMW so the id decides.
	if diff := cmp.Diff([]int64{4, 1, 3, 2}, ids); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}

	matches = append(matches, decisive(1, 3, 1))
	// 1 and 4 now have two wins and an OMW of 3 each.
	got = ComputeStandings(players, matches)
	if got[0].PlayerID != 1 || got[1].PlayerID != 4 || got[0].OMW != 3 || got[1].OMW != 3 {
		t.Fatalf("expected 1 then 4 on top, got %v", got)
	}
}

func TestStandingsOMWPrefersStrongerSchedule(t *testing.T) {
	players := newPlayers("A", "B", "C", "D")
	matches := []domain.Match{
		decisive(1, 2, 1),
		decisive(3, 4, 4),
		decisive(2, 3, 2),
	}

	got := ComputeStandings(players, matches)
	// 1, 2 and 4 have one win each. 4 faced 3 (0 wins), 1 faced 2 (1 win),
	// 2 faced 1 (1) and 3 (0).
	want := []int64{1, 2, 4, 3}
	for i, id := range want {
		if got[i].PlayerID != id {
			t.Fatalf("position %d: want player %d, got %d", i, id, got[i].PlayerID)
		}
	}
}

func TestStandingsByeCountsAsWinWithoutOpponent(t *testing.T) {
	players := newPlayers("A", "B", "C")
	matches := []domain.Match{
		domain.NewByeMatch(1, 3),
		decisive(1, 2, 2),
	}

	got := ComputeStandings(players, matches)
	want := []domain.StandingsRow{
		{PlayerID: 2, Name: "B", Wins: 1, Matches: 1, OMW: 0},
		{PlayerID: 3, Name: "C", Wins: 1, Matches: 1, OMW: 0},
		{PlayerID: 1, Name: "A", Wins: 0, Matches: 1, OMW: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
}

func TestStandingsWinSumExcludesDraws(t *testing.T) {
	players := newPlayers("A", "B", "C", "D", "E")
	matches := []domain.Match{
		decisive(1, 2, 2),
		draw(3, 4),
		domain.NewByeMatch(1, 5),
		decisive(2, 5, 5),
		draw(1, 3),
	}

	wins, decisiveOrBye := 0, 0
	for _, r := range ComputeStandings(players, matches) {
		wins += r.Wins
	}
	for _, m := range matches {
		if m.Outcome.Kind != domain.OutcomeDraw {
			decisiveOrBye++
		}
	}
	if wins != decisiveOrBye {
		t.Fatalf("sum of wins %d, want %d", wins, decisiveOrBye)
	}
}

func TestStandingsCountsRepeatedOpponentOnce(t *testing.T) {
	players := newPlayers("A", "B")
	matches := []domain.Match{decisive(1, 2, 2), decisive(1, 2, 2)}

	got := ComputeStandings(players, matches)
	if got[1].PlayerID != 1 || got[1].OMW != 2 || got[1].Matches != 2 {
		t.Fatalf("unexpected row for player 1: %+v", got[1])
	}
}

func TestStandingsIgnoresForeignPlayers(t *testing.T) {
	players := newPlayers("A", "B")
	matches := []domain.Match{decisive(1, 9, 9), decisive(1, 2, 1)}

	got := ComputeStandings(players, matches)
	if got[0].PlayerID != 1 || got[0].Wins != 1 || got[0].Matches != 2 || got[0].OMW != 0 {
		t.Fatalf("unexpected row for player 1: %+v", got[0])
	}
}

func TestStandingsEmpty(t *testing.T) {
	got := ComputeStandings(nil, nil)
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %v", got)
	}
}

func TestStandingsIdempotent(t *testing.T) {
	players := newPlayers("A", "B", "C", "D", "E", "F")
	matches := []domain.Match{decisive(1, 2, 2), draw(3, 4), decisive(5, 6, 5)}

	first := ComputeStandings(players, matches)
	second := ComputeStandings(players, matches)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("standings changed between calls:\n%s", diff)
	}
}
