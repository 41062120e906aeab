package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/backup"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/middleware/ratelimit"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/services"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/session"
	"github.com/PralayaKaveriThrinesh/Finance-Tracker/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	return newTestServerTTL(t, 24*time.Hour)
}

// newTestServerTTL builds a server over a fresh memory store. The rate
// limit is set high enough that no test trips it by accident; the one test
// exercising 429 builds its own server.
func newTestServerTTL(t *testing.T, sessionTTL time.Duration) (*Server, *memory.Store) {
	t.Helper()

	st := memory.New()
	srv := NewServer(Options{
		Addr:           ":0",
		Store:          st,
		Sessions:       session.NewManager(sessionTTL),
		Transactions:   services.NewTransactionService(st, nil),
		Backups:        backup.NewService(st),
		AllowedOrigins: []string{"*"},
		RateLimit:      ratelimit.Config{RequestsPerMinute: 10000, CleanupInterval: time.Minute},
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, st
}

func doRequest(t *testing.T, srv *Server, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// signup registers a user and logs them in, returning the session cookie.
func signup(t *testing.T, srv *Server, username string) *http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"name":"Test User","email":"%s@example.com","password":"hunter22"}`, username, username)
	rec := doRequest(t, srv, http.MethodPost, "/api/register", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/login",
		fmt.Sprintf(`{"username":%q,"password":"hunter22"}`, username))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got status %d, body %s", rec.Code, rec.Body.String())
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("healthz body: got %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ready") {
		t.Errorf("readyz body: got %s", rec.Body.String())
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")

	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	}
	for name, want := range headers {
		if got := rec.Header().Get(name); got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected a Content-Security-Policy header")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should not be set over plain HTTP")
	}
}

func TestRateLimitMutations(t *testing.T) {
	st := memory.New()
	srv := NewServer(Options{
		Addr:           ":0",
		Store:          st,
		Sessions:       session.NewManager(time.Hour),
		Transactions:   services.NewTransactionService(st, nil),
		Backups:        backup.NewService(st),
		AllowedOrigins: []string{"*"},
		RateLimit:      ratelimit.Config{RequestsPerMinute: 2, CleanupInterval: time.Minute},
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	login := `{"username":"ghost","password":"nope"}`
	for i := 0; i < 2; i++ {
		rec := doRequest(t, srv, http.MethodPost, "/api/login", login)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("request %d: got status %d, want 401", i+1, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodPost, "/api/login", login)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third write: got status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After: got %q, want %q", rec.Header().Get("Retry-After"), "60")
	}

	// Reads pass through even when the client is over the write limit.
	rec = doRequest(t, srv, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("read while limited: got status %d, want 200", rec.Code)
	}
}

func TestSuspiciousRequestLoggedNotBlocked(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz?file=../../etc/passwd", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("suspicious request: got status %d, want 200", rec.Code)
	}
	if srv.detector.GetMetrics().SuspiciousRequests == 0 {
		t.Error("expected the suspicious request counter to increase")
	}
}

func TestCleanersExposesCaches(t *testing.T) {
	srv, _ := newTestServer(t)
	if got := len(srv.Cleaners()); got != 2 {
		t.Errorf("Cleaners: got %d, want 2", got)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	srv, _ := newTestServer(t)

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("first shutdown: %v", err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestBudgetAlertNotificationFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := signup(t, srv, "frugal")

	rec := doRequest(t, srv, http.MethodPost, "/api/budgets",
		`{"category":"food","amount":100,"period":"monthly"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/transactions",
		`{"amount":85,"category":"food","description":"week of groceries","date":"2025-03-10","type":"expense"}`, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/notifications", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("list notifications: got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Budget alert") {
		t.Errorf("expected a budget alert notification, body: %s", rec.Body.String())
	}
}
