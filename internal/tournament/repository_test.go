package tournament

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds SQL without ever opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test dbname=test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return gdb
}

func TestWindowSQL(t *testing.T) {
	gdb := dryRunDB(t)
	q := ListQuery{Page: 3, Limit: 20, Title: "chess", City: "pune"}

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []*Tournament
		return window(tx, q).Find(&items)
	})

	for _, want := range []string{
		`FROM "tournaments"`,
		`title ILIKE '%chess%'`,
		`city ILIKE '%pune%'`,
		"ORDER BY created_at DESC,id DESC",
		"LIMIT 20",
		"OFFSET 40",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("SQL = %s\nmissing %q", sql, want)
		}
	}
}

func TestFilteredSQL_NoFilters(t *testing.T) {
	gdb := dryRunDB(t)

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var total int64
		return filtered(tx, ListQuery{Page: 1, Limit: 10}).Count(&total)
	})

	if !strings.Contains(sql, "count(*)") {
		t.Errorf("SQL = %s, want count(*)", sql)
	}
	if strings.Contains(sql, "WHERE") {
		t.Errorf("SQL = %s, want no WHERE clause without filters", sql)
	}
}

func TestTranslate(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicateTitle},
		{"raw unique violation", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), ErrDuplicateTitle},
		{"other", boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate("op", tt.err); !errors.Is(got, tt.want) {
				t.Errorf("translate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestTranslate_WrapsWithOperation(t *testing.T) {
	got := translate("update tournament", errors.New("deadlock detected"))
	if !strings.HasPrefix(got.Error(), "update tournament: ") {
		t.Errorf("translate() = %q, want operation prefix", got)
	}
}

func TestFingerprintSQL(t *testing.T) {
	gdb := dryRunDB(t)

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var row struct {
			Count  int64
			Latest *string
		}
		return tx.Model(&Tournament{}).
			Select("count(*) AS count, max(updated_at) AS latest").
			Scan(&row)
	})

	want := `SELECT count(*) AS count, max(updated_at) AS latest FROM "tournaments"`
	if !strings.Contains(sql, want) {
		t.Errorf("SQL = %s, want %q", sql, want)
	}
}

func TestWindowSQL_LastPage(t *testing.T) {
	gdb := dryRunDB(t)
	q := ListQuery{Page: MaxPage, Limit: MaxLimit}

	sql := gdb.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var items []*Tournament
		return window(tx, q).Find(&items)
	})

	if want := fmt.Sprintf("OFFSET %d", q.Offset()); !strings.Contains(sql, want) {
		t.Errorf("SQL = %s\nmissing %q", sql, want)
	}
}
