package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowUnderLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("192.168.1.10") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestAllowOverLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 2, CleanupInterval: time.Minute})
	defer rl.Stop()

	rl.Allow("192.168.1.10")
	rl.Allow("192.168.1.10")

	if rl.Allow("192.168.1.10") {
		t.Error("third request within the window should be denied")
	}

	metrics := rl.GetMetrics()
	if metrics.TotalHits != 1 {
		t.Errorf("expected 1 rate limit hit, got %d", metrics.TotalHits)
	}
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	if !rl.Allow("192.168.1.10") {
		t.Error("first client should be allowed")
	}
	if !rl.Allow("192.168.1.11") {
		t.Error("second client should be allowed")
	}
	if rl.Allow("192.168.1.10") {
		t.Error("first client should now be over its limit")
	}

	if got := rl.ActiveClients(); got != 2 {
		t.Errorf("expected 2 tracked clients, got %d", got)
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	rl.Allow("192.168.1.10")

	// Age the client's window past a minute by hand
	rl.mu.Lock()
	rl.clients["192.168.1.10"].lastRequest = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	if !rl.Allow("192.168.1.10") {
		t.Error("request after the window elapsed should be allowed")
	}
}

func TestNewLimiterRejectsBadConfig(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 0})
	defer rl.Stop()

	if rl.requestsPerMinute != DefaultConfig().RequestsPerMinute {
		t.Errorf("expected defaults for zero config, got %d", rl.requestsPerMinute)
	}
}

func TestMiddlewareReturns429(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	handler := rl.Middleware(func(r *http.Request) string { return "10.0.0.1" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("expected Retry-After header, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
