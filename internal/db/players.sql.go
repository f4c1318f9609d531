package db

import (
	"context"
	"time"
)

const createPlayer = `
INSERT INTO players (name, tournament_id, created_at)
VALUES ($1, $2, $3)
RETURNING id
`

type CreatePlayerParams struct {
	Name         string
	TournamentID int64
	CreatedAt    time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createPlayer, arg.Name, arg.TournamentID, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getPlayer = `
SELECT id, name, tournament_id, created_at FROM players WHERE id = $1
`

func (q *Queries) GetPlayer(ctx context.Context, id int64) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayer, id)
	var i Player
	err := row.Scan(&i.ID, &i.Name, &i.TournamentID, &i.CreatedAt)
	return i, err
}

const listPlayersByTournament = `
SELECT id, name, tournament_id, created_at
FROM players
WHERE tournament_id = $1
ORDER BY id
`

func (q *Queries) ListPlayersByTournament(ctx context.Context, tournamentID int64) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayersByTournament, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(&i.ID, &i.Name, &i.TournamentID, &i.CreatedAt); err != nil {
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

const countPlayers = `
SELECT COUNT(*) FROM players
`

func (q *Queries) CountPlayers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPlayers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countPlayersByTournament = `
SELECT COUNT(*) FROM players WHERE tournament_id = $1
`

func (q *Queries) CountPlayersByTournament(ctx context.Context, tournamentID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPlayersByTournament, tournamentID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllPlayers = `
DELETE FROM players
`

func (q *Queries) DeleteAllPlayers(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllPlayers)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
