package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("submit:uid-1", 3, time.Minute) {
			t.Fatalf("request %d denied within limit", i+1)
		}
	}
	if limiter.Allow("submit:uid-1", 3, time.Minute) {
		t.Fatal("fourth request allowed past the limit")
	}
	if !limiter.Allow("submit:uid-2", 3, time.Minute) {
		t.Fatal("separate key denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter()

	if !limiter.Allow("key", 1, 10*time.Millisecond) {
		t.Fatal("first request denied")
	}
	if limiter.Allow("key", 1, 10*time.Millisecond) {
		t.Fatal("second request allowed within the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("key", 1, 10*time.Millisecond) {
		t.Fatal("request denied after the window ended")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter()
	handler := RateLimit(limiter, ClientIP, 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payment/create-order", nil)
		req.RemoteAddr = "203.0.113.9:54321"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d, want 204", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payment/create-order", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	handler := RateLimit(nil, ClientIP, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := ClientIP(req); got != "10.0.0.1" {
		t.Fatalf("ClientIP = %q, want 10.0.0.1", got)
	}
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	if got := ClientIP(req); got != "198.51.100.7" {
		t.Fatalf("ClientIP = %q, want forwarded address", got)
	}
}
