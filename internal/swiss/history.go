package swiss

import (
	"errors"
	"swiss-tournament/internal/domain"

	"github.com/dominikbraun/graph"
)

func playerHash(id int64) int64 {
	return id
}

// History answers which pairs have already met. Players are the vertices
// of an undirected graph and every non-bye match adds an edge.
type History struct {
	played graph.Graph[int64, int64]
	byes   map[int64]struct{}
}

// NewHistory indexes the given matches.
func NewHistory(matches []domain.Match) (*History, error) {
	h := &History{
		played: graph.New(playerHash),
		byes:   make(map[int64]struct{}),
	}
	for _, m := range matches {
		if err := h.Add(m); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Add records one match. Repeated pairs are kept once.
func (h *History) Add(m domain.Match) error {
	if m.IsBye() {
		h.byes[m.Outcome.Winner] = struct{}{}
		return nil
	}
	for _, id := range [2]int64{m.Player1ID, m.Player2ID} {
		if err := h.played.AddVertex(id); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
	}
	err := h.played.AddEdge(m.Player1ID, m.Player2ID)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return err
	}
	return nil
}

// Played reports whether a and b have met, in either order.
func (h *History) Played(a, b int64) bool {
	_, err := h.played.Edge(a, b)
	return err == nil
}

// HadBye reports whether player has already received a bye.
func (h *History) HadBye(player int64) bool {
	_, ok := h.byes[player]
	return ok
}
