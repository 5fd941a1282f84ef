// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/tournamentctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Storage drivers and table names
// --------------------------------------------------------------------------

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const TournamentsTable = "tournaments"

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Storage
	StorageDriver string // postgres, memory

	// Database
	DatabaseURL          string
	DBPoolMinConns       int
	DBPoolMaxConns       int
	DBPoolMaxIdle        time.Duration
	DBPoolAcquireTimeout time.Duration
	DBPoolMaxLife        time.Duration
	SlowQueryThreshold   time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Dev utilities
	SeedEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	driver := strings.ToLower(envOr("STORAGE_DRIVER", DriverPostgres))
	if driver != DriverPostgres && driver != DriverMemory {
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, driver)
	}

	dbURL := envOr("DATABASE_URL", "")
	if driver == DriverPostgres && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set (or STORAGE_DRIVER=memory)")
	}

	environment := envOr("ENVIRONMENT", "development")

	cfg := &Config{
		StorageDriver: driver,

		DatabaseURL:          dbURL,
		DBPoolMinConns:       envInt("DB_POOL_MIN_CONNS", 0),
		DBPoolMaxConns:       envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxIdle:        time.Duration(envInt("DB_POOL_MAX_IDLE_SECONDS", 10)) * time.Second,
		DBPoolAcquireTimeout: time.Duration(envInt("DB_POOL_ACQUIRE_TIMEOUT_SECONDS", 30)) * time.Second,
		DBPoolMaxLife:        time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		SlowQueryThreshold:   time.Duration(envInt("SLOW_QUERY_MS", 200)) * time.Millisecond,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 3000)),
		Environment: environment,
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		SeedEnabled: envBool("SEED_ENABLED", environment != "production"),
	}

	if cfg.DBPoolMaxConns < 1 {
		return nil, fmt.Errorf("DB_POOL_MAX_CONNS must be at least 1, got %d", cfg.DBPoolMaxConns)
	}
	if cfg.DBPoolMinConns > cfg.DBPoolMaxConns {
		return nil, fmt.Errorf("DB_POOL_MIN_CONNS (%d) exceeds DB_POOL_MAX_CONNS (%d)", cfg.DBPoolMinConns, cfg.DBPoolMaxConns)
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesMemoryStore reports whether tournaments live in process memory.
func (c *Config) UsesMemoryStore() bool {
	return c.StorageDriver == DriverMemory
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
