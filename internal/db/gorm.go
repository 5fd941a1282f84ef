package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jonboulle/clockwork"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chessdir/tournaments/internal/config"
)

// Gorm opens a gorm handle that shares this pool's connections. Timestamps
// come from clock, truncated to the microsecond precision Postgres stores.
func (p *Pool) Gorm(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (*gorm.DB, error) {
	sqlDB := stdlib.OpenDBFromPool(p.Pool)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         NewGormLogger(logger, cfg.SlowQueryThreshold, cfg.Debug),
		NowFunc:        func() time.Time { return clock.Now().UTC().Truncate(time.Microsecond) },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return gdb, nil
}

// IsUniqueViolation reports whether err came from a unique index, either
// translated by gorm or as the raw Postgres error (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
