package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"swiss-tournament/internal/domain"
	"swiss-tournament/internal/middleware"
	"swiss-tournament/internal/repository"
	"swiss-tournament/internal/service"
	"swiss-tournament/internal/swiss"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type TournamentServer struct {
	svc    *service.TournamentService
	logger zerolog.Logger
}

func NewTournamentServer(svc *service.TournamentService, logger zerolog.Logger) *TournamentServer {
	return &TournamentServer{svc: svc, logger: logger}
}

func (s *TournamentServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/tournaments", func(r chi.Router) {
		r.Post("/", s.CreateTournament)
		r.Delete("/", s.DeleteTournaments)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/players/count", s.CountPlayers)
			r.Post("/players", s.RegisterPlayer)
			r.Get("/standings", s.Standings)
			r.Post("/pairings", s.Pairings)
		})
	})
	r.Get("/players/count", s.CountPlayers)
	r.Delete("/players", s.DeletePlayers)
	r.Post("/pairings", s.PairAll)
	r.Post("/matches", s.ReportMatch)
	r.Post("/matches/batch", s.ReportMatches)
	r.Delete("/matches", s.DeleteMatches)

	return r
}

type nameRequest struct {
	Name string `json:"name"`
}

type tournamentResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type playerResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	TournamentID int64  `json:"tournament_id"`
}

type standingResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Wins    int    `json:"wins"`
	Matches int    `json:"matches"`
	OMW     int    `json:"omw"`
}

type pairingResponse struct {
	ID1   int64  `json:"id1"`
	Name1 string `json:"name1"`
	ID2   int64  `json:"id2"`
	Name2 string `json:"name2"`
}

type roundResponse struct {
	Pairings []pairingResponse `json:"pairings"`
	Bye      *standingResponse `json:"bye,omitempty"`
}

type matchRequest struct {
	Player1 int64  `json:"player1"`
	Player2 int64  `json:"player2"`
	Winner  *int64 `json:"winner,omitempty"`
}

type pairAllRequest struct {
	Tournaments []string `json:"tournaments"`
}

func (s *TournamentServer) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.svc.CreateTournament(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, tournamentResponse{ID: t.ID, Name: t.Name})
}

func (s *TournamentServer) DeleteTournaments(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.DeleteTournaments(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *TournamentServer) CountPlayers(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.CountPlayers(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int{"count": n})
}

func (s *TournamentServer) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.svc.RegisterPlayer(r.Context(), req.Name, chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, playerResponse{ID: p.ID, Name: p.Name, TournamentID: p.TournamentID})
}

func (s *TournamentServer) Standings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Standings(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := make([]standingResponse, len(rows))
	for i, row := range rows {
		resp[i] = toStandingResponse(row)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *TournamentServer) Pairings(w http.ResponseWriter, r *http.Request) {
	round, err := s.svc.Pairings(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toRoundResponse(round))
}

func (s *TournamentServer) PairAll(w http.ResponseWriter, r *http.Request) {
	// An empty body pairs every tournament.
	var req pairAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	rounds, err := s.svc.PairAll(r.Context(), req.Tournaments)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := make(map[string]roundResponse, len(rounds))
	for name, round := range rounds {
		resp[name] = toRoundResponse(round)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *TournamentServer) ReportMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.svc.ReportMatch(r.Context(), req.Player1, req.Player2, req.Winner); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *TournamentServer) ReportMatches(w http.ResponseWriter, r *http.Request) {
	var req []matchRequest
	if !s.decode(w, r, &req) {
		return
	}
	results := make([]service.MatchResult, len(req))
	for i, m := range req {
		results[i] = service.MatchResult{Player1: m.Player1, Player2: m.Player2, Winner: m.Winner}
	}
	if err := s.svc.ReportMatches(r.Context(), results); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *TournamentServer) DeleteMatches(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.DeleteMatches(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *TournamentServer) DeletePlayers(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.DeletePlayers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]int64{"deleted": n})
}

func toStandingResponse(row domain.StandingsRow) standingResponse {
	return standingResponse{
		ID:      row.PlayerID,
		Name:    row.Name,
		Wins:    row.Wins,
		Matches: row.Matches,
		OMW:     row.OMW,
	}
}

func toRoundResponse(round *domain.Round) roundResponse {
	resp := roundResponse{Pairings: make([]pairingResponse, len(round.Pairings))}
	for i, p := range round.Pairings {
		resp.Pairings[i] = pairingResponse{ID1: p.Player1ID, Name1: p.Player1Name, ID2: p.Player2ID, Name2: p.Player2Name}
	}
	if round.Bye != nil {
		bye := toStandingResponse(*round.Bye)
		resp.Bye = &bye
	}
	return resp
}

func (s *TournamentServer) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("invalid request body")
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrInvalidMatch),
		errors.Is(err, service.ErrCrossTournament):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, swiss.ErrPairingInfeasible),
		errors.Is(err, swiss.ErrByeExhausted):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *TournamentServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (s *TournamentServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}
