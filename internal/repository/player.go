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

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, name string, tournamentID int64) (*domain.Player, error) {
	player := &domain.Player{
		Name:         name,
		TournamentID: tournamentID,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		Name:         player.Name,
		TournamentID: player.TournamentID,
		CreatedAt:    player.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	player.ID = id

	r.logger.Debug().Int64("player_id", id).Int64("tournament_id", tournamentID).Msg("player created")
	return player, nil
}

func (r *PlayerRepository) Get(ctx context.Context, id int64) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]domain.Player, error) {
	players, err := r.queries.ListPlayersByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = *toDomainPlayer(p)
	}
	return result, nil
}

func (r *PlayerRepository) CountAll(ctx context.Context) (int, error) {
	count, err := r.queries.CountPlayers(ctx)
	return int(count), err
}

func (r *PlayerRepository) CountByTournament(ctx context.Context, tournamentID int64) (int, error) {
	count, err := r.queries.CountPlayersByTournament(ctx, tournamentID)
	return int(count), err
}

func (r *PlayerRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.queries.DeleteAllPlayers(ctx)
}

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:           p.ID,
		Name:         p.Name,
		TournamentID: p.TournamentID,
		CreatedAt:    p.CreatedAt,
	}
}
