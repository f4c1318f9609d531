package swiss

import (
	"context"
	"fmt"
	"swiss-tournament/internal/domain"
)

// Strategy selects how a round is matched.
type Strategy string

const (
	// StrategyGreedy pairs every player with the nearest ranked opponent it
	// has not met yet and never revisits a decision.
	StrategyGreedy Strategy = "greedy"

	// StrategyBacktracking explores the same candidate order depth first and
	// backs out of dead ends, including the choice of bye recipient.
	StrategyBacktracking Strategy = "backtracking"
)

// ParseStrategy maps a configured name to a Strategy. Empty means greedy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyGreedy, StrategyBacktracking:
		return Strategy(s), nil
	case "":
		return StrategyGreedy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Pairer builds rounds with a fixed strategy.
type Pairer struct {
	strategy Strategy
}

// NewPairer returns a Pairer, defaulting to greedy.
func NewPairer(strategy Strategy) *Pairer {
	if strategy == "" {
		strategy = StrategyGreedy
	}
	return &Pairer{strategy: strategy}
}

// Strategy returns the configured strategy.
func (p *Pairer) Strategy() Strategy {
	return p.strategy
}

// Pair builds the next round from ranked standings. On error no partial
// round is returned. The backtracking search stops when ctx is done.
func (p *Pairer) Pair(ctx context.Context, ranked []domain.StandingsRow, history *History) (*domain.Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return &domain.Round{Pairings: []domain.Pairing{}}, nil
	}
	switch p.strategy {
	case StrategyBacktracking:
		return pairBacktracking(ctx, ranked, history)
	default:
		return pairGreedy(ranked, history)
	}
}

// byeCandidates lists the indices of players eligible for a bye, lowest
// ranked first.
func byeCandidates(ranked []domain.StandingsRow, history *History) []int {
	candidates := make([]int, 0, len(ranked))
	for i := len(ranked) - 1; i >= 0; i-- {
		if !history.HadBye(ranked[i].PlayerID) {
			candidates = append(candidates, i)
		}
	}
	return candidates
}

func pairGreedy(ranked []domain.StandingsRow, history *History) (*domain.Round, error) {
	removed := make([]bool, len(ranked))
	round := &domain.Round{Pairings: make([]domain.Pairing, 0, len(ranked)/2)}

	if len(ranked)%2 != 0 {
		candidates := byeCandidates(ranked, history)
		if len(candidates) == 0 {
			return nil, ErrByeExhausted
		}
		bye := ranked[candidates[0]]
		round.Bye = &bye
		removed[candidates[0]] = true
	}

	for i := range ranked {
		if removed[i] {
			continue
		}
		removed[i] = true
		j := nextOpponent(ranked, removed, history, i, i+1)
		if j < 0 {
			return nil, fmt.Errorf("%w: player %d", ErrPairingInfeasible, ranked[i].PlayerID)
		}
		removed[j] = true
		round.Pairings = append(round.Pairings, newPairing(ranked[i], ranked[j]))
	}

	return round, nil
}

// nextOpponent returns the first index at or after from that is still in
// play and has not met ranked[i], or -1.
func nextOpponent(ranked []domain.StandingsRow, removed []bool, history *History, i, from int) int {
	for j := from; j < len(ranked); j++ {
		if removed[j] || history.Played(ranked[i].PlayerID, ranked[j].PlayerID) {
			continue
		}
		return j
	}
	return -1
}

func pairBacktracking(ctx context.Context, ranked []domain.StandingsRow, history *History) (*domain.Round, error) {
	st := &searchState{
		ctx:     ctx,
		ranked:  ranked,
		history: history,
		removed: make([]bool, len(ranked)),
		pairs:   make([][2]int, 0, len(ranked)/2),
		failed:  make(map[string]struct{}),
	}

	if len(ranked)%2 == 0 {
		ok, err := st.search()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no perfect matching among %d players", ErrPairingInfeasible, len(ranked))
		}
		return buildRound(ranked, st.pairs, -1), nil
	}

	candidates := byeCandidates(ranked, history)
	if len(candidates) == 0 {
		return nil, ErrByeExhausted
	}
	for _, b := range candidates {
		st.removed[b] = true
		ok, err := st.search()
		if err != nil {
			return nil, err
		}
		if ok {
			return buildRound(ranked, st.pairs, b), nil
		}
		st.removed[b] = false
	}
	return nil, fmt.Errorf("%w: no bye recipient leaves a perfect matching", ErrPairingInfeasible)
}

// searchState carries one backtracking run. failed holds the sets of
// players already in play for which no completion exists.
type searchState struct {
	ctx     context.Context
	ranked  []domain.StandingsRow
	history *History
	removed []bool
	pairs   [][2]int
	failed  map[string]struct{}
}

// search pairs the top remaining player with each admissible opponent in
// rank order and recurses, undoing the choice when the rest cannot be
// completed.
func (st *searchState) search() (bool, error) {
	if err := st.ctx.Err(); err != nil {
		return false, err
	}

	i := 0
	for i < len(st.ranked) && st.removed[i] {
		i++
	}
	if i == len(st.ranked) {
		return true, nil
	}

	key := st.key()
	if _, ok := st.failed[key]; ok {
		return false, nil
	}
	if st.stranded() {
		st.failed[key] = struct{}{}
		return false, nil
	}

	st.removed[i] = true
	for j := nextOpponent(st.ranked, st.removed, st.history, i, i+1); j >= 0; j = nextOpponent(st.ranked, st.removed, st.history, i, j+1) {
		st.removed[j] = true
		st.pairs = append(st.pairs, [2]int{i, j})
		ok, err := st.search()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		st.pairs = st.pairs[:len(st.pairs)-1]
		st.removed[j] = false
	}
	st.removed[i] = false
	st.failed[key] = struct{}{}
	return false, nil
}

// stranded reports whether some remaining player has already met every
// other remaining player.
func (st *searchState) stranded() bool {
	for i := range st.ranked {
		if st.removed[i] {
			continue
		}
		open := false
		for j := range st.ranked {
			if j == i || st.removed[j] {
				continue
			}
			if !st.history.Played(st.ranked[i].PlayerID, st.ranked[j].PlayerID) {
				open = true
				break
			}
		}
		if !open {
			return true
		}
	}
	return false
}

func (st *searchState) key() string {
	b := make([]byte, (len(st.removed)+7)/8)
	for i, r := range st.removed {
		if r {
			b[i/8] |= 1 << (i % 8)
		}
	}
	return string(b)
}

func buildRound(ranked []domain.StandingsRow, pairs [][2]int, bye int) *domain.Round {
	round := &domain.Round{Pairings: make([]domain.Pairing, 0, len(pairs))}
	for _, pair := range pairs {
		round.Pairings = append(round.Pairings, newPairing(ranked[pair[0]], ranked[pair[1]]))
	}
	if bye >= 0 {
		row := ranked[bye]
		round.Bye = &row
	}
	return round
}

func newPairing(a, b domain.StandingsRow) domain.Pairing {
	return domain.Pairing{
		Player1ID:   a.PlayerID,
		Player1Name: a.Name,
		Player2ID:   b.PlayerID,
		Player2Name: b.Name,
	}
}
