package service

import (
	"context"
	"errors"
	"fmt"
	"swiss-tournament/internal/constants"
	"swiss-tournament/internal/domain"
	"swiss-tournament/internal/repository"
	"swiss-tournament/internal/swiss"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyName       = errors.New("tournament name is required")
	ErrInvalidMatch    = errors.New("invalid match")
	ErrCrossTournament = errors.New("players belong to different tournaments")
)

// MatchResult is a reported match. A nil Winner is a draw.
type MatchResult struct {
	Player1 int64
	Player2 int64
	Winner  *int64
}

type TournamentService struct {
	tournaments *repository.TournamentRepository
	players     *repository.PlayerRepository
	matches     *repository.MatchRepository
	pairer      *swiss.Pairer
	logger      zerolog.Logger
}

func NewTournamentService(
	tournaments *repository.TournamentRepository,
	players *repository.PlayerRepository,
	matches *repository.MatchRepository,
	pairer *swiss.Pairer,
	logger zerolog.Logger,
) *TournamentService {
	return &TournamentService{
		tournaments: tournaments,
		players:     players,
		matches:     matches,
		pairer:      pairer,
		logger:      logger,
	}
}

func (s *TournamentService) CreateTournament(ctx context.Context, name string) (*domain.Tournament, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	t, err := s.tournaments.GetOrCreate(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament", name).Msg("failed to create tournament")
		return nil, err
	}
	return t, nil
}

// CountPlayers counts the players of one tournament, or of all tournaments
// when name is empty. Unknown tournaments have no players.
func (s *TournamentService) CountPlayers(ctx context.Context, name string) (int, error) {
	if name == "" {
		return s.players.CountAll(ctx)
	}

	t, err := s.tournaments.GetByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to look up tournament: %w", err)
	}
	if t == nil {
		return 0, nil
	}
	return s.players.CountByTournament(ctx, t.ID)
}

// RegisterPlayer adds a player to the named tournament, creating the
// tournament on first use.
func (s *TournamentService) RegisterPlayer(ctx context.Context, name, tournamentName string) (*domain.Player, error) {
	t, err := s.CreateTournament(ctx, tournamentName)
	if err != nil {
		return nil, err
	}

	player, err := s.players.Create(ctx, name, t.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("tournament", tournamentName).Str("player_name", name).Msg("failed to register player")
		return nil, err
	}

	s.logger.Info().
		Int64("player_id", player.ID).
		Str("player_name", name).
		Str("tournament", tournamentName).
		Msg("player registered")
	return player, nil
}

// Standings ranks the players of a tournament. Unknown tournaments yield
// an empty list.
func (s *TournamentService) Standings(ctx context.Context, tournamentName string) ([]domain.StandingsRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	t, players, matches, err := s.load(ctx, tournamentName)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return []domain.StandingsRow{}, nil
	}

	rows := swiss.ComputeStandings(players, matches)
	s.logger.Debug().Str("tournament", tournamentName).Int("players", len(rows)).Int("matches", len(matches)).Msg("standings computed")
	return rows, nil
}

// Pairings builds the next round and records its bye, if any. When pairing
// fails nothing is recorded.
func (s *TournamentService) Pairings(ctx context.Context, tournamentName string) (*domain.Round, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	planned, err := s.plan(ctx, tournamentName)
	if err != nil {
		return nil, err
	}
	if err := s.recordByes(ctx, []plannedRound{planned}); err != nil {
		return nil, err
	}
	return planned.round, nil
}

// PairAll pairs several tournaments in parallel. An empty list means every
// tournament. Byes are recorded in one transaction once every round has
// been built, so a failure in any tournament records nothing.
func (s *TournamentService) PairAll(ctx context.Context, names []string) (map[string]*domain.Round, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if len(names) == 0 {
		var err error
		names, err = s.tournaments.ListNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tournaments: %w", err)
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MaxParallelTournaments)

	var mu sync.Mutex
	planned := make([]plannedRound, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		name := name
		g.Go(func() error {
			p, err := s.plan(gCtx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			planned = append(planned, p)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Int("tournaments", len(seen)).Msg("batch pairing aborted")
		return nil, err
	}

	if err := s.recordByes(ctx, planned); err != nil {
		return nil, err
	}

	rounds := make(map[string]*domain.Round, len(planned))
	for _, p := range planned {
		rounds[p.name] = p.round
	}
	return rounds, nil
}

// plannedRound is a computed round whose bye has not been stored yet.
type plannedRound struct {
	name         string
	tournamentID int64
	round        *domain.Round
}

// plan computes the next round of a tournament without writing anything.
func (s *TournamentService) plan(ctx context.Context, tournamentName string) (plannedRound, error) {
	planned := plannedRound{name: tournamentName}

	t, players, matches, err := s.load(ctx, tournamentName)
	if err != nil {
		return planned, err
	}
	if t == nil {
		planned.round = &domain.Round{Pairings: []domain.Pairing{}}
		return planned, nil
	}
	planned.tournamentID = t.ID

	history, err := swiss.NewHistory(matches)
	if err != nil {
		return planned, fmt.Errorf("failed to build match history: %w", err)
	}

	ranked := swiss.ComputeStandings(players, matches)
	round, err := s.pairer.Pair(ctx, ranked, history)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("tournament", tournamentName).
			Str("strategy", string(s.pairer.Strategy())).
			Int("players", len(ranked)).
			Msg("pairing failed")
		return planned, fmt.Errorf("failed to pair tournament %q: %w", tournamentName, err)
	}

	s.logger.Info().Str("tournament", tournamentName).Int("pairings", len(round.Pairings)).Msg("round paired")
	planned.round = round
	return planned, nil
}

func (s *TournamentService) recordByes(ctx context.Context, planned []plannedRound) error {
	byes := make([]*domain.Match, 0, len(planned))
	for _, p := range planned {
		if p.round.Bye == nil {
			continue
		}
		bye := domain.NewByeMatch(p.tournamentID, p.round.Bye.PlayerID)
		byes = append(byes, &bye)
	}
	if len(byes) == 0 {
		return nil
	}

	if err := s.matches.CreateBatch(ctx, byes); err != nil {
		s.logger.Error().Err(err).Int("byes", len(byes)).Msg("failed to record byes")
		return fmt.Errorf("failed to record byes: %w", err)
	}

	for _, p := range planned {
		if p.round.Bye != nil {
			s.logger.Info().Str("tournament", p.name).Int64("player_id", p.round.Bye.PlayerID).Msg("bye assigned")
		}
	}
	return nil
}

func (s *TournamentService) ReportMatch(ctx context.Context, p1, p2 int64, winner *int64) error {
	return s.ReportMatches(ctx, []MatchResult{{Player1: p1, Player2: p2, Winner: winner}})
}

// ReportMatches records a batch of results atomically.
func (s *TournamentService) ReportMatches(ctx context.Context, results []MatchResult) error {
	matches := make([]*domain.Match, 0, len(results))
	for _, r := range results {
		m, err := s.toMatch(ctx, r)
		if err != nil {
			s.logger.Warn().Err(err).Int64("player1_id", r.Player1).Int64("player2_id", r.Player2).Msg("rejected match report")
			return err
		}
		matches = append(matches, m)
	}

	if err := s.matches.CreateBatch(ctx, matches); err != nil {
		s.logger.Error().Err(err).Int("matches", len(matches)).Msg("failed to record matches")
		return fmt.Errorf("failed to record matches: %w", err)
	}

	s.logger.Info().Int("matches", len(matches)).Msg("matches reported")
	return nil
}

func (s *TournamentService) toMatch(ctx context.Context, r MatchResult) (*domain.Match, error) {
	if r.Player1 == r.Player2 {
		return nil, fmt.Errorf("%w: player %d cannot play itself", ErrInvalidMatch, r.Player1)
	}
	outcome := domain.Draw()
	if r.Winner != nil {
		if *r.Winner != r.Player1 && *r.Winner != r.Player2 {
			return nil, fmt.Errorf("%w: winner %d did not play", ErrInvalidMatch, *r.Winner)
		}
		outcome = domain.Decisive(*r.Winner)
	}

	p1, err := s.players.Get(ctx, r.Player1)
	if err != nil {
		return nil, err
	}
	p2, err := s.players.Get(ctx, r.Player2)
	if err != nil {
		return nil, err
	}
	if p1.TournamentID != p2.TournamentID {
		return nil, fmt.Errorf("%w: %d and %d", ErrCrossTournament, p1.ID, p2.ID)
	}

	m := domain.NewMatch(p1.TournamentID, p1.ID, p2.ID, outcome)
	return &m, nil
}

func (s *TournamentService) DeleteMatches(ctx context.Context) (int64, error) {
	n, err := s.matches.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}
	s.logger.Info().Int64("deleted", n).Msg("matches deleted")
	return n, nil
}

func (s *TournamentService) DeletePlayers(ctx context.Context) (int64, error) {
	n, err := s.players.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete players: %w", err)
	}
	s.logger.Info().Int64("deleted", n).Msg("players deleted")
	return n, nil
}

// DeleteTournaments removes the named tournament, or all of them when the
// name is empty.
func (s *TournamentService) DeleteTournaments(ctx context.Context, name string) (int64, error) {
	n, err := s.tournaments.Delete(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tournaments: %w", err)
	}
	s.logger.Info().Str("tournament", name).Int64("deleted", n).Msg("tournaments deleted")
	return n, nil
}

func (s *TournamentService) load(ctx context.Context, name string) (*domain.Tournament, []domain.Player, []domain.Match, error) {
	t, err := s.tournaments.GetByName(ctx, name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to look up tournament: %w", err)
	}
	if t == nil {
		s.logger.Debug().Str("tournament", name).Msg("tournament not found")
		return nil, nil, nil, nil
	}

	players, err := s.players.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load players: %w", err)
	}
	matches, err := s.matches.ListByTournament(ctx, t.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return t, players, matches, nil
}
