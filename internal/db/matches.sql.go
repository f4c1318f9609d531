package db

import (
	"context"
	"time"
)

const createMatch = `
INSERT INTO matches (id, tournament_id, player1_id, player2_id, winner_id, outcome, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateMatchParams struct {
	ID           string
	TournamentID int64
	Player1ID    int64
	Player2ID    int64
	WinnerID     *int64
	Outcome      string
	CreatedAt    time.Time
}

func (q *Queries) CreateMatch(ctx context.Context, arg CreateMatchParams) error {
	_, err := q.db.ExecContext(ctx, createMatch,
		arg.ID,
		arg.TournamentID,
		arg.Player1ID,
		arg.Player2ID,
		arg.WinnerID,
		arg.Outcome,
		arg.CreatedAt,
	)
	return err
}

const listMatchesByTournament = `
SELECT id, tournament_id, player1_id, player2_id, winner_id, outcome, created_at
FROM matches
WHERE tournament_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListMatchesByTournament(ctx context.Context, tournamentID int64) ([]Match, error) {
	rows, err := q.db.QueryContext(ctx, listMatchesByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Match
	for rows.Next() {
		var i Match
		if err := rows.Scan(
			&i.ID,
			&i.TournamentID,
			&i.Player1ID,
			&i.Player2ID,
			&i.WinnerID,
			&i.Outcome,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllMatches = `
DELETE FROM matches
`

func (q *Queries) DeleteAllMatches(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllMatches)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
