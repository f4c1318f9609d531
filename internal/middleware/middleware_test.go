package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestIDIsGenerated(t *testing.T) {
	var seen string
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/standings", nil))

	if seen == "" {
		t.Fatal("expected a request id in the handler context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("header %q does not match context id %q", got, seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status not passed through: %d", rec.Code)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := RequestID(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "abc-123" {
			t.Errorf("context id: got %q", got)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/pairings", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("header: got %q", got)
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	if got := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}
