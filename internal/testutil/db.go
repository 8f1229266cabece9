// Package testutil provides database and HTTP fixtures shared by the module
// tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/simp-lee/fieldops/internal/domain"
)

// NewDB opens a private in-memory SQLite database with foreign keys enforced
// and every domain model migrated. It is closed when the test ends.
//
// The pool holds a single connection: each connection to :memory: would
// otherwise get its own empty database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(domain.Models()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

// Seed inserts each value in order, failing the test on the first error.
func Seed(t testing.TB, db *gorm.DB, values ...any) {
	t.Helper()
	for _, v := range values {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("seed %T: %v", v, err)
		}
	}
}

// Routes is anything that mounts routes on an API group.
type Routes interface {
	RegisterRoutes(api *gin.RouterGroup)
}

// NewRouter returns a test-mode engine with every m mounted under /api.
func NewRouter(m ...Routes) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	for _, mod := range m {
		mod.RegisterRoutes(api)
	}
	return r
}

// Do performs a request against h. A non-empty body is sent as JSON.
func Do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
