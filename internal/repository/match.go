package repository

import (
	"context"
	"database/sql"
	"fmt"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create stores the match, filling in its id and creation time when unset.
func (r *MatchRepository) Create(ctx context.Context, match *domain.Match) error {
	return r.create(ctx, r.queries, match)
}

// CreateBatch stores all matches in one transaction.
func (r *MatchRepository) CreateBatch(ctx context.Context, matches []*domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for _, match := range matches {
		if err := r.create(ctx, qtx, match); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *MatchRepository) create(ctx context.Context, q *db.Queries, match *domain.Match) error {
	if match.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		match.ID = id
	}
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}

	var winner *int64
	if match.Outcome.Kind != domain.OutcomeDraw {
		w := match.Outcome.Winner
		winner = &w
	}

	err := q.CreateMatch(ctx, db.CreateMatchParams{
		ID:           match.ID,
		TournamentID: match.TournamentID,
		Player1ID:    match.Player1ID,
		Player2ID:    match.Player2ID,
		WinnerID:     winner,
		Outcome:      string(match.Outcome.Kind),
		CreatedAt:    match.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert match %d/%d: %w", match.Player1ID, match.Player2ID, err)
	}

	r.logger.Debug().
		Str("match_id", match.ID).
		Int64("player1_id", match.Player1ID).
		Int64("player2_id", match.Player2ID).
		Str("outcome", string(match.Outcome.Kind)).
		Msg("match recorded")
	return nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]domain.Match, error) {
	rows, err := r.queries.ListMatchesByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Match, len(rows))
	for i, m := range rows {
		outcome, err := toDomainOutcome(m)
		if err != nil {
			return nil, err
		}
		result[i] = domain.Match{
			ID:           m.ID,
			TournamentID: m.TournamentID,
			Player1ID:    m.Player1ID,
			Player2ID:    m.Player2ID,
			Outcome:      outcome,
			CreatedAt:    m.CreatedAt,
		}
	}
	return result, nil
}

func (r *MatchRepository) DeleteAll(ctx context.Context) (int64, error) {
	return r.queries.DeleteAllMatches(ctx)
}

func toDomainOutcome(m db.Match) (domain.Outcome, error) {
	switch domain.OutcomeKind(m.Outcome) {
	case domain.OutcomeDraw:
		return domain.Draw(), nil
	case domain.OutcomeBye:
		return domain.Bye(m.Player1ID), nil
	case domain.OutcomeDecisive:
		if m.WinnerID == nil {
			return domain.Outcome{}, fmt.Errorf("%w: decisive match %s without winner", ErrUnknownOutcome, m.ID)
		}
		return domain.Decisive(*m.WinnerID), nil
	}
	return domain.Outcome{}, fmt.Errorf("%w: %q", ErrUnknownOutcome, m.Outcome)
}
