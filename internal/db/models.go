package db

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

type Match struct {
	ID           string
	TournamentID int64
	Player1ID    int64
	Player2ID    int64
	WinnerID     *int64
	Outcome      string
	CreatedAt    time.Time
}
