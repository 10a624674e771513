package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimitMiddleware(ctx, 0.5, 2, false)
	handler := rl.Middleware(okHandler())

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/registrations", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := send("192.0.2.1:1000"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 within burst, got %d", i, w.Code)
		}
	}

	w := send("192.0.2.1:1001")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after burst, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "2" {
		t.Errorf("Expected Retry-After 2, got %q", w.Header().Get("Retry-After"))
	}

	if w := send("192.0.2.2:1000"); w.Code != http.StatusOK {
		t.Errorf("Expected other clients to be unaffected, got %d", w.Code)
	}
}

func TestRateLimitMiddleware_ForwardedFor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	send := func(handler http.Handler, forwarded string) int {
		req := httptest.NewRequest(http.MethodPost, "/registrations", nil)
		req.RemoteAddr = "192.0.2.1:1000"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	direct := NewRateLimitMiddleware(ctx, 0.5, 1, false).Middleware(okHandler())
	if code := send(direct, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", code)
	}
	if code := send(direct, "203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("Expected spoofed X-Forwarded-For to share the peer bucket, got %d", code)
	}

	proxied := NewRateLimitMiddleware(ctx, 0.5, 1, true).Middleware(okHandler())
	if code := send(proxied, "203.0.113.1"); code != http.StatusOK {
		t.Fatalf("Expected first request to pass, got %d", code)
	}
	if code := send(proxied, "203.0.113.2, 192.0.2.1"); code != http.StatusOK {
		t.Errorf("Expected distinct forwarded clients behind a trusted proxy, got %d", code)
	}
}

func TestRateLimitMiddleware_EvictIdle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimitMiddleware(ctx, 1, 1, false)
	rl.getLimiter("192.0.2.1")

	rl.evictIdle(time.Now())
	if len(rl.limiters) != 1 {
		t.Fatalf("Expected fresh limiter to be kept, have %d", len(rl.limiters))
	}

	rl.evictIdle(time.Now().Add(rl.cleanup + time.Second))
	if len(rl.limiters) != 0 {
		t.Errorf("Expected idle limiter to be evicted, have %d", len(rl.limiters))
	}
}
