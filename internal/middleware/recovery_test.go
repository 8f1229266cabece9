package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fieldops/internal/pkg"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupRecoveryRouter(logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})
	r.GET("/partial", func(c *gin.Context) {
		c.String(http.StatusAccepted, "started")
		panic("late panic")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestRecovery_NoPanic_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&buf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got:\n%s", buf.String())
	}
}

func TestRecovery_Panic_ErrorBody(t *testing.T) {
	var buf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&buf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}

	var body pkg.ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body.Error != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %q", body.Error)
	}
	if body.Message != "An unexpected error occurred" {
		t.Errorf("unexpected message %q", body.Message)
	}
	if strings.Contains(w.Body.String(), "test panic") {
		t.Error("panic value leaked into the response")
	}
}

func TestRecovery_Panic_LogsDetails(t *testing.T) {
	var buf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&buf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	out := buf.String()
	for _, want := range []string{"level=ERROR", "panic recovered", "test panic", "path=/panic", "stack="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRecovery_Panic_AfterWrite(t *testing.T) {
	var buf bytes.Buffer
	r := setupRecoveryRouter(newTestLogger(&buf))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected original status 202, got %d", w.Code)
	}
	if w.Body.String() != "started" {
		t.Errorf("expected original body only, got %q", w.Body.String())
	}
}

func TestRecovery_Panic_AbortsFurtherHandlers(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(newTestLogger(&bytes.Buffer{})))

	reached := false
	r.Use(func(c *gin.Context) {
		c.Next()
		reached = true
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if reached {
		t.Error("expected middleware after the panic not to resume")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
