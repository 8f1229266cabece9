package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fieldops/internal/config"
)

func setupRouter(middleware gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware)
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func corsRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS_DefaultsAllowAnyOrigin(t *testing.T) {
	r := setupRouter(CORS(config.CORSConfig{MaxAge: "24h"}))

	w := corsRequest(r, http.MethodGet, "http://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected Allow-Origin *, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PATCH, DELETE, OPTIONS" {
		t.Errorf("unexpected Allow-Methods %q", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "86400" {
		t.Errorf("expected Max-Age 86400, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID" {
		t.Errorf("expected X-Request-ID to be exposed, got %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary Origin, got %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := setupRouter(CORS(config.CORSConfig{}))

	w := corsRequest(r, http.MethodOptions, "http://example.com")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "" {
		t.Errorf("expected no Max-Age without config, got %q", got)
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	r := setupRouter(CORS(config.CORSConfig{}))

	w := corsRequest(r, http.MethodGet, "")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS headers, got Allow-Origin %q", got)
	}
}

func TestCORS_SpecificOrigins(t *testing.T) {
	r := setupRouter(CORS(config.CORSConfig{
		AllowOrigins: []string{"https://app.example.com"},
		AllowMethods: []string{"GET"},
	}))

	w := corsRequest(r, http.MethodGet, "https://app.example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET" {
		t.Errorf("expected configured methods, got %q", got)
	}

	w = corsRequest(r, http.MethodGet, "https://evil.example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("expected request to proceed, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin for denied origin, got %q", got)
	}

	w = corsRequest(r, http.MethodOptions, "https://evil.example.com")
	if w.Code == http.StatusNoContent {
		t.Error("expected preflight from denied origin not to be answered")
	}
}

func TestCORS_WithCredentials_EchoesOrigin(t *testing.T) {
	r := setupRouter(CORS(config.CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true}))

	w := corsRequest(r, http.MethodGet, "http://example.com")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("expected echoed origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected Allow-Credentials true, got %q", got)
	}
}
