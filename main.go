package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/todo-list/internal/config"
	"github.com/msomdec/todo-list/internal/domain"
	"github.com/msomdec/todo-list/internal/handler"
	"github.com/msomdec/todo-list/internal/repository/postgres"
	"github.com/msomdec/todo-list/internal/repository/sqlite"
	"github.com/msomdec/todo-list/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg.LogWarnings()

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	revocations, closeRevocations, err := openRevocations(ctx, cfg)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer closeRevocations()

	sessions := service.NewJWTSessions(cfg.SecretKey, cfg.SessionTTL, revocations)
	authService := service.NewAuthService(db.Users(), sessions, cfg.BcryptCost)
	taskService := service.NewTaskService(db.Tasks())
	flashes := handler.NewFlashes(cfg.SecretKey, cfg.CookieSecure)
	limiter := service.PerMinute(ctx, cfg.LoginPerMin)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, taskService, flashes, limiter, handler.CookieConfig{
		Secure: cfg.CookieSecure,
		MaxAge: sessions.TTL(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file otherwise.
func openDatabase(ctx context.Context, cfg *config.Config) (domain.Database, error) {
	if cfg.DatabaseURL != "" {
		slog.Info("using postgres database")
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	slog.Info("using sqlite database", "path", cfg.DatabasePath)
	return sqlite.New(cfg.DatabasePath)
}

// openRevocations returns the store for logged-out session IDs and a func
// that releases it.
func openRevocations(ctx context.Context, cfg *config.Config) (service.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		slog.Info("using in-memory session revocation store")
		return service.NewMemoryRevocations(), func() {}, nil
	}
	store, err := service.NewRedisRevocations(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("using redis session revocation store")
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("close redis", "error", err)
		}
	}, nil
}
