// Command tournamentctl manages the tournaments database.
//
// Usage:
//
//	tournamentctl migrate
//	tournamentctl seed
//	tournamentctl seed --file fixtures/tournaments.yaml
//	tournamentctl list --title open --city pune --page 2 --limit 20
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/chessdir/tournaments/internal/config"
	"github.com/chessdir/tournaments/internal/db"
	"github.com/chessdir/tournaments/internal/seed"
	"github.com/chessdir/tournaments/internal/tournament"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "tournamentctl",
		Short:        "Chess tournament directory admin CLI",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(listCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the tournaments table and change trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, repo *tournament.Repository) error {
				start := time.Now()
				if err := repo.Migrate(ctx); err != nil {
					return err
				}
				logger.Info("Migration finished", "duration", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample tournaments (all or nothing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := seed.DefaultFixture()
			if file != "" {
				b, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read fixture: %w", err)
				}
				raw = b
			}
			return withRepository(func(ctx context.Context, repo *tournament.Repository) error {
				start := time.Now()
				result, err := seed.Run(ctx, repo, raw)
				for _, e := range result.Errors {
					logger.Error("seed error", "error", e)
				}
				if err != nil {
					return err
				}
				logger.Info("Seed finished", "duration", time.Since(start).Round(time.Millisecond), "summary", result.Summary())
				if err := repo.Analyze(ctx); err != nil {
					logger.Warn("Failed to refresh planner statistics", "error", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML fixture to load instead of the built-in sample data")
	return cmd
}

func listCmd() *cobra.Command {
	var q tournament.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of tournaments as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string][]string{
				"page":  {fmt.Sprint(q.Page)},
				"limit": {fmt.Sprint(q.Limit)},
			}
			if q.Title != "" {
				values["title"] = []string{q.Title}
			}
			if q.City != "" {
				values["city"] = []string{q.City}
			}
			parsed, err := tournament.ParseListQuery(values)
			if err != nil {
				return err
			}
			return withRepository(func(ctx context.Context, repo *tournament.Repository) error {
				page, err := repo.List(ctx, parsed)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			})
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", tournament.DefaultPage, "Page number (1-based)")
	cmd.Flags().IntVar(&q.Limit, "limit", tournament.DefaultLimit, "Page size")
	cmd.Flags().StringVar(&q.Title, "title", "", "Title contains (case-insensitive)")
	cmd.Flags().StringVar(&q.City, "city", "", "City contains (case-insensitive)")
	return cmd
}

// withRepository handles config loading, DB connection, and context cancellation.
func withRepository(fn func(ctx context.Context, repo *tournament.Repository) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.UsesMemoryStore() {
		return fmt.Errorf("tournamentctl needs STORAGE_DRIVER=%s and DATABASE_URL", config.DriverPostgres)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	gdb, err := pool.Gorm(cfg, clockwork.NewRealClock(), logger)
	if err != nil {
		return err
	}
	return fn(ctx, tournament.NewRepository(gdb, cfg.DBPoolAcquireTimeout))
}
