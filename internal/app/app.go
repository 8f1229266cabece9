package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/config"
	"github.com/simp-lee/fieldops/internal/domain"
	"github.com/simp-lee/fieldops/internal/metrics"
	"github.com/simp-lee/fieldops/internal/middleware"
	"github.com/simp-lee/fieldops/internal/module/audit"
)

const (
	defaultWriteTimeout = 60 * time.Second
	shutdownTimeout     = 5 * time.Second
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, writeTimeout time.Duration) httpServer {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging, metrics, the database, the business modules, the
// middleware chain and the routes. Everything opened before a failure is
// closed again.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	if cfg.Server.Mode == gin.ReleaseMode && len(cfg.Server.CORS.AllowOrigins) == 0 {
		log.Warn("no server.cors.allow_origins configured: any origin may call the API")
	}

	var (
		m       *metrics.Metrics
		plugins []gorm.Plugin
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		plugins = append(plugins, metrics.NewGormPlugin(m))
	}

	db, err := config.SetupDatabase(&cfg.Database, log.Logger, plugins...)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		closeDB(db, log.Logger)
	}()

	if m != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		if err := m.RegisterDBStats(sqlDB, cfg.Database.Driver); err != nil {
			return nil, fmt.Errorf("register db stats: %w", err)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(domain.Models()...); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed", slog.Int("models", len(domain.Models())))
	}

	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	handlers := []gin.HandlerFunc{
		middleware.Recovery(log.Logger),
		middleware.RequestID(cfg.Server.TrustRequestID),
		middleware.Logger(log.Logger),
		middleware.CORS(cfg.Server.CORS),
	}
	if cfg.Server.RateLimit.Enabled {
		handlers = append(handlers, middleware.NewRateLimiter(cfg.Server.RateLimit).Handler())
	}
	if m != nil {
		handlers = append(handlers, m.Middleware("/health", cfg.Metrics.Path))
	}
	engine.Use(handlers...)

	if err := RegisterRoutes(engine, &RouteDeps{
		Modules:     newModules(db, audit.NewRecorder(db)),
		DB:          db,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
	}); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	success = true
	return &App{
		engine: engine,
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

// Handler returns the configured gin engine.
func (a *App) Handler() http.Handler {
	return a.engine
}

// writeTimeout returns server.timeout, or the default when unset.
func (a *App) writeTimeout() time.Duration {
	if d, err := time.ParseDuration(a.cfg.Server.Timeout); err == nil && d > 0 {
		return d
	}
	return defaultWriteTimeout
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger.Logger
	}
	return slog.Default()
}

// Run starts the HTTP server and blocks until a shutdown signal is received
// or the server fails. It shuts the server down with a 5-second deadline and
// then closes the database and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := a.log()
	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := newHTTPServer(addr, a.engine, a.writeTimeout())

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	closeDB(a.db, log)
	log.Info("server stopped")

	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}
	return runErr
}

func closeDB(db *gorm.DB, log *slog.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("database close error", slog.Any("error", err))
		return
	}
	log.Info("database connection closed")
}
