package db

import (
	"context"
	"time"
)

const createTournament = `
INSERT INTO tournaments (name, created_at)
VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
`

type CreateTournamentParams struct {
	Name      string
	CreatedAt time.Time
}

// CreateTournament is a no-op when the name is taken.
func (q *Queries) CreateTournament(ctx context.Context, arg CreateTournamentParams) error {
	_, err := q.db.ExecContext(ctx, createTournament, arg.Name, arg.CreatedAt)
	return err
}

const getTournamentByName = `
SELECT id, name, created_at FROM tournaments WHERE name = $1
`

func (q *Queries) GetTournamentByName(ctx context.Context, name string) (Tournament, error) {
	row := q.db.QueryRowContext(ctx, getTournamentByName, name)
	var i Tournament
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const listTournamentNames = `
SELECT name FROM tournaments ORDER BY id
`

func (q *Queries) ListTournamentNames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTournamentNames)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTournamentByName = `
DELETE FROM tournaments WHERE name = $1
`

func (q *Queries) DeleteTournamentByName(ctx context.Context, name string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTournamentByName, name)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAllTournaments = `
DELETE FROM tournaments
`

func (q *Queries) DeleteAllTournaments(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllTournaments)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
