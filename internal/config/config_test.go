package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tournaments")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StorageDriver != DriverPostgres {
		t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, DriverPostgres)
	}
	if cfg.DBPoolMaxConns != 5 || cfg.DBPoolMinConns != 0 {
		t.Errorf("pool conns = %d/%d, want 0/5", cfg.DBPoolMinConns, cfg.DBPoolMaxConns)
	}
	if cfg.DBPoolMaxIdle != 10*time.Second {
		t.Errorf("DBPoolMaxIdle = %v, want 10s", cfg.DBPoolMaxIdle)
	}
	if cfg.DBPoolAcquireTimeout != 30*time.Second {
		t.Errorf("DBPoolAcquireTimeout = %v, want 30s", cfg.DBPoolAcquireTimeout)
	}
	if cfg.APIPort != 3000 {
		t.Errorf("APIPort = %d, want 3000", cfg.APIPort)
	}
	if !cfg.SeedEnabled {
		t.Error("SeedEnabled = false, want true outside production")
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want missing DATABASE_URL error")
	}
}

func TestLoad_MemoryDriverNeedsNoDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "Memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UsesMemoryStore() {
		t.Errorf("UsesMemoryStore() = false, want true")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want unknown driver error")
	}
}

func TestLoad_ProductionDisablesSeed(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tournaments")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SEED_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SeedEnabled {
		t.Error("SeedEnabled = true, want false in production")
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
}

func TestLoad_PoolBounds(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tournaments")
	t.Setenv("DB_POOL_MIN_CONNS", "8")
	t.Setenv("DB_POOL_MAX_CONNS", "4")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want min > max error")
	}
}

func TestEnvList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset uses fallback", "", []string{"fallback"}},
		{"single", "http://a", []string{"http://a"}},
		{"trims and drops blanks", " http://a , ,http://b ", []string{"http://a", "http://b"}},
		{"only separators uses fallback", " , ", []string{"fallback"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_LIST", tt.value)
			got := envList("TEST_LIST", []string{"fallback"})
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("envList() = %v, want %v", got, tt.want)
			}
		})
	}
}
