package domain

import (
	"time"
)

type Tournament struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

type Player struct {
	ID           int64
	Name         string
	TournamentID int64
	CreatedAt    time.Time
}

type OutcomeKind string

const (
	OutcomeDecisive OutcomeKind = "decisive"
	OutcomeDraw     OutcomeKind = "draw"
	OutcomeBye      OutcomeKind = "bye"
)

// Outcome is the result of a match. Winner is set for decisive results
// and byes, zero for draws.
type Outcome struct {
	Kind   OutcomeKind
	Winner int64
}

func Decisive(winner int64) Outcome { return Outcome{Kind: OutcomeDecisive, Winner: winner} }
func Draw() Outcome                 { return Outcome{Kind: OutcomeDraw} }
func Bye(player int64) Outcome      { return Outcome{Kind: OutcomeBye, Winner: player} }

// Match is stored with Player1ID <= Player2ID. Byes carry the recipient
// in both slots.
type Match struct {
	ID           string // nanoid
	TournamentID int64
	Player1ID    int64
	Player2ID    int64
	Outcome      Outcome
	CreatedAt    time.Time
}

// NewMatch builds a match between two distinct players with the pair in
// canonical order.
func NewMatch(tournamentID, p1, p2 int64, outcome Outcome) Match {
	if p1 > p2 {
		p1, p2 = p2, p1
	}
	return Match{
		TournamentID: tournamentID,
		Player1ID:    p1,
		Player2ID:    p2,
		Outcome:      outcome,
	}
}

func NewByeMatch(tournamentID, player int64) Match {
	return Match{
		TournamentID: tournamentID,
		Player1ID:    player,
		Player2ID:    player,
		Outcome:      Bye(player),
	}
}

func (m Match) IsBye() bool {
	return m.Outcome.Kind == OutcomeBye
}

// StandingsRow is derived from players and matches on every read.
type StandingsRow struct {
	PlayerID int64
	Name     string
	Wins     int
	Matches  int
	OMW      int // sum of the wins of every opponent faced
}

type Pairing struct {
	Player1ID   int64
	Player1Name string
	Player2ID   int64
	Player2Name string
}

type Round struct {
	Pairings []Pairing
	Bye      *StandingsRow
}
