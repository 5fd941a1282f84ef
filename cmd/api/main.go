// Command api is the chess tournament directory API server.
//
// Usage:
//
//	tournaments-api
//	API_PORT=8080 STORAGE_DRIVER=memory tournaments-api

// @title Chess Tournament Directory API
// @version 1.0.0
// @description Create, search, update and delete chess tournament listings. Every response uses the {success, data, error, message} envelope.
// @host localhost:3000
// @BasePath /
// @schemes http https
// @contact.name Chess Directory
// @license.name MIT
package main

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

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/chessdir/tournaments/internal/api"
	"github.com/chessdir/tournaments/internal/api/handler"
	"github.com/chessdir/tournaments/internal/cache"
	"github.com/chessdir/tournaments/internal/config"
	"github.com/chessdir/tournaments/internal/db"
	"github.com/chessdir/tournaments/internal/listener"
	"github.com/chessdir/tournaments/internal/maintenance"
	"github.com/chessdir/tournaments/internal/tournament"
	"github.com/chessdir/tournaments/internal/tournament/memstore"

	_ "github.com/chessdir/tournaments/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	clock := clockwork.NewRealClock()

	appCache := cache.New(cfg.CacheEnabled, clock)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	var (
		store  handler.Store
		pinger handler.Pinger
	)
	if cfg.UsesMemoryStore() {
		store = memstore.New(clock)
		logger.Warn("Using in-memory store; data is lost on restart")
	} else {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		version, timeZone, err := pool.ServerInfo(ctx)
		if err != nil {
			logger.Warn("Failed to read server settings", "error", err)
		}
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns,
			"server_version", version,
			"time_zone", timeZone)

		repo, err := openRepository(ctx, pool, cfg, clock, logger)
		if err != nil {
			logger.Error("Failed to prepare tournaments table", "error", err)
			os.Exit(1)
		}
		store, pinger = repo, pool

		// Writes from other instances invalidate this instance's cache.
		go listener.New(cfg.DatabaseURL, tournament.ChangeChannel, appCache, clock, logger).Start(ctx)

		// Catch-up sweep for events missed while the listener was down.
		go maintenance.New(repo, appCache, clock, maintenance.DefaultConfig(), logger).Start(ctx)
	}

	router := api.NewRouter(store, pinger, appCache, cfg, logger, handler.WithClock(clock))

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting tournament directory API",
			"addr", addr,
			"environment", cfg.Environment,
			"storage", cfg.StorageDriver,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

func openRepository(ctx context.Context, pool *db.Pool, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (*tournament.Repository, error) {
	gdb, err := pool.Gorm(cfg, clock, logger)
	if err != nil {
		return nil, err
	}
	repo := tournament.NewRepository(gdb, cfg.DBPoolAcquireTimeout)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
