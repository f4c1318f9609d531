package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/database"
	"swiss-tournament/internal/db"
	"swiss-tournament/internal/repository"
	"swiss-tournament/internal/service"
	"swiss-tournament/internal/swiss"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "tournament.db"),
	}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	q := db.New(sqlDB)
	logger := zerolog.Nop()
	svc := service.NewTournamentService(
		repository.NewTournamentRepository(sqlDB, q, logger),
		repository.NewPlayerRepository(sqlDB, q, logger),
		repository.NewMatchRepository(sqlDB, q, logger),
		swiss.NewPairer(swiss.StrategyGreedy),
		logger,
	)

	srv := httptest.NewServer(NewTournamentServer(svc, logger).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestRoundOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var ids []int64
	for _, name := range []string{"A", "B", "C", "D"} {
		var p playerResponse
		if status := do(t, srv, http.MethodPost, "/tournaments/club/players", nameRequest{Name: name}, &p); status != http.StatusCreated {
			t.Fatalf("register %s: status %d", name, status)
		}
		ids = append(ids, p.ID)
	}

	var count map[string]int
	do(t, srv, http.MethodGet, "/tournaments/club/players/count", nil, &count)
	if count["count"] != 4 {
		t.Fatalf("count: got %v", count)
	}

	var round roundResponse
	if status := do(t, srv, http.MethodPost, "/tournaments/club/pairings", nil, &round); status != http.StatusOK {
		t.Fatalf("pairings: status %d", status)
	}
	want := []pairingResponse{
		{ID1: ids[0], Name1: "A", ID2: ids[1], Name2: "B"},
		{ID1: ids[2], Name1: "C", ID2: ids[3], Name2: "D"},
	}
	if diff := cmp.Diff(want, round.Pairings); diff != "" {
		t.Fatalf("pairings mismatch (-want +got):\n%s", diff)
	}

	results := []matchRequest{
		{Player1: ids[0], Player2: ids[1], Winner: &ids[0]},
		{Player1: ids[2], Player2: ids[3]},
	}
	if status := do(t, srv, http.MethodPost, "/matches/batch", results, nil); status != http.StatusCreated {
		t.Fatalf("report: status %d", status)
	}

	var standings []standingResponse
	do(t, srv, http.MethodGet, "/tournaments/club/standings", nil, &standings)
	if len(standings) != 4 || standings[0].ID != ids[0] || standings[0].Wins != 1 {
		t.Fatalf("unexpected standings: %+v", standings)
	}
}

func TestErrorStatuses(t *testing.T) {
	srv := newTestServer(t)

	var a, b playerResponse
	do(t, srv, http.MethodPost, "/tournaments/x/players", nameRequest{Name: "A"}, &a)
	do(t, srv, http.MethodPost, "/tournaments/x/players", nameRequest{Name: "B"}, &b)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"self match", http.MethodPost, "/matches", matchRequest{Player1: a.ID, Player2: a.ID}, http.StatusBadRequest},
		{"missing player", http.MethodPost, "/matches", matchRequest{Player1: a.ID, Player2: 4242}, http.StatusNotFound},
		{"empty tournament name", http.MethodPost, "/tournaments", nameRequest{}, http.StatusBadRequest},
		{"first match", http.MethodPost, "/matches", matchRequest{Player1: a.ID, Player2: b.ID, Winner: &b.ID}, http.StatusCreated},
		{"only rematch left", http.MethodPost, "/tournaments/x/pairings", nil, http.StatusConflict},
	}
	for _, tc := range cases {
		var errBody map[string]string
		var out any
		if tc.status >= 400 {
			out = &errBody
		}
		if status := do(t, srv, tc.method, tc.path, tc.body, out); status != tc.status {
			t.Fatalf("%s: want status %d, got %d (%v)", tc.name, tc.status, status, errBody)
		}
		if tc.status >= 400 && errBody["error"] == "" {
			t.Fatalf("%s: missing error message", tc.name)
		}
	}
}

func TestUnknownTournamentIsEmpty(t *testing.T) {
	srv := newTestServer(t)

	var standings []standingResponse
	if status := do(t, srv, http.MethodGet, "/tournaments/ghost/standings", nil, &standings); status != http.StatusOK || len(standings) != 0 {
		t.Fatalf("standings: status %d, %v", status, standings)
	}
	var round roundResponse
	if status := do(t, srv, http.MethodPost, "/tournaments/ghost/pairings", nil, &round); status != http.StatusOK || len(round.Pairings) != 0 {
		t.Fatalf("pairings: status %d, %+v", status, round)
	}
}

func TestPairAllAndDeletes(t *testing.T) {
	srv := newTestServer(t)
	for i, name := range []string{"A", "B", "C"} {
		do(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/t%d/players", i%2), nameRequest{Name: name}, nil)
	}

	var rounds map[string]roundResponse
	if status := do(t, srv, http.MethodPost, "/pairings", nil, &rounds); status != http.StatusOK {
		t.Fatalf("pair all: status %d", status)
	}
	if len(rounds) != 2 || len(rounds["t0"].Pairings) != 1 || rounds["t1"].Bye == nil {
		t.Fatalf("unexpected rounds: %+v", rounds)
	}

	var deleted map[string]int64
	do(t, srv, http.MethodDelete, "/matches", nil, &deleted)
	if deleted["deleted"] != 1 {
		t.Fatalf("expected the recorded bye to be deleted, got %v", deleted)
	}
	do(t, srv, http.MethodDelete, "/tournaments?name=t0", nil, &deleted)
	if deleted["deleted"] != 1 {
		t.Fatalf("delete tournament: got %v", deleted)
	}
	var count map[string]int
	do(t, srv, http.MethodGet, "/players/count", nil, &count)
	if count["count"] != 1 {
		t.Fatalf("players left: %v", count)
	}
}
