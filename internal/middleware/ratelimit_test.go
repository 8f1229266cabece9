package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fieldops/internal/config"
	"github.com/simp-lee/fieldops/internal/pkg"
)

func TestRateLimiter_Allow(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow("a") {
		t.Error("expected third request to be limited")
	}
	if !l.Allow("b") {
		t.Error("expected other clients to have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Error("expected a token after one second")
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(limiterIdleTTL + time.Second)
	l.Allow("b")

	if _, ok := l.clients["a"]; ok {
		t.Error("expected idle client to be swept")
	}
	if len(l.clients) != 1 {
		t.Errorf("expected 1 client, got %d", len(l.clients))
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1})

	r := gin.New()
	r.Use(l.Handler())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Errorf("expected Retry-After 1, got %q", got)
	}
	var body pkg.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Error != "RATE_LIMITED" {
		t.Errorf("expected RATE_LIMITED, got %q", body.Error)
	}
}
