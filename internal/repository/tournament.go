package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/domain"
	"time"

	"github.com/rs/zerolog"
)

type TournamentRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewTournamentRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *TournamentRepository {
	return &TournamentRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// GetByName returns nil without an error when no tournament has that name.
func (r *TournamentRepository) GetByName(ctx context.Context, name string) (*domain.Tournament, error) {
	t, err := r.queries.GetTournamentByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainTournament(t), nil
}

// GetOrCreate looks the tournament up by name and inserts it if missing.
func (r *TournamentRepository) GetOrCreate(ctx context.Context, name string) (*domain.Tournament, error) {
	err := r.queries.CreateTournament(ctx, db.CreateTournamentParams{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament %q: %w", name, err)
	}

	t, err := r.queries.GetTournamentByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %q: %w", name, err)
	}

	r.logger.Debug().Int64("tournament_id", t.ID).Str("tournament", name).Msg("tournament resolved")
	return toDomainTournament(t), nil
}

func (r *TournamentRepository) ListNames(ctx context.Context) ([]string, error) {
	return r.queries.ListTournamentNames(ctx)
}

// Delete removes the named tournament, or every tournament when name is
// empty. Players and matches go with it.
func (r *TournamentRepository) Delete(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return r.queries.DeleteAllTournaments(ctx)
	}
	return r.queries.DeleteTournamentByName(ctx, name)
}

func toDomainTournament(t db.Tournament) *domain.Tournament {
	return &domain.Tournament{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
