package tournament

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/chessdir/tournaments/internal/config"
	"github.com/chessdir/tournaments/internal/db"
)

// ChangeChannel is the Postgres NOTIFY channel fired after every write to
// the tournaments table.
const ChangeChannel = "tournaments_changed"

// notifyTrigger installs a statement-level trigger so every insert, update
// or delete publishes the operation name on ChangeChannel.
var notifyTrigger = []string{
	`CREATE OR REPLACE FUNCTION notify_tournaments_changed() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('` + ChangeChannel + `', TG_OP);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS tournaments_changed ON tournaments`,
	`CREATE TRIGGER tournaments_changed
	AFTER INSERT OR UPDATE OR DELETE ON tournaments
	FOR EACH STATEMENT EXECUTE FUNCTION notify_tournaments_changed()`,
}

// Repository is the Postgres-backed tournament store.
type Repository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewRepository bounds every call by timeout, which covers waiting for a
// pooled connection as well as running the statement. Zero disables it.
func NewRepository(gdb *gorm.DB, timeout time.Duration) *Repository {
	return &Repository{db: gdb, timeout: timeout}
}

func (r *Repository) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.timeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

// Migrate creates or updates the table, its indexes and the change trigger.
func (r *Repository) Migrate(ctx context.Context) error {
	tx, cancel := r.conn(ctx)
	defer cancel()

	if err := tx.AutoMigrate(&Tournament{}); err != nil {
		return fmt.Errorf("migrate tournaments: %w", err)
	}
	for _, stmt := range notifyTrigger {
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install change trigger: %w", err)
		}
	}
	return nil
}

// Create inserts t in a single statement and fills in id and timestamps.
func (r *Repository) Create(ctx context.Context, t *Tournament) error {
	tx, cancel := r.conn(ctx)
	defer cancel()

	if err := tx.Create(t).Error; err != nil {
		return translate("insert tournament", err)
	}
	return nil
}

// BulkCreate inserts all records in one statement; either all land or none.
func (r *Repository) BulkCreate(ctx context.Context, ts []*Tournament) (int, error) {
	if len(ts) == 0 {
		return 0, nil
	}
	tx, cancel := r.conn(ctx)
	defer cancel()

	res := tx.Create(&ts)
	if res.Error != nil {
		return 0, translate("bulk insert tournaments", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Get returns the tournament with id, or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (*Tournament, error) {
	tx, cancel := r.conn(ctx)
	defer cancel()

	var t Tournament
	if err := tx.Where("id = ?", id).Take(&t).Error; err != nil {
		return nil, translate("get tournament", err)
	}
	return &t, nil
}

// Update applies changes to the row with id and bumps updated_at. Zero
// affected rows is reported as ErrNotFound.
func (r *Repository) Update(ctx context.Context, id int64, changes Changes) error {
	tx, cancel := r.conn(ctx)
	defer cancel()

	cols := changes.Columns()
	cols["updated_at"] = r.db.NowFunc()

	res := tx.Model(&Tournament{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return translate("update tournament", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with id; zero affected rows is ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, cancel := r.conn(ctx)
	defer cancel()

	res := tx.Where("id = ?", id).Delete(&Tournament{})
	if res.Error != nil {
		return translate("delete tournament", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of tournaments, newest first. Total counts every
// match regardless of the page window.
func (r *Repository) List(ctx context.Context, q ListQuery) (*Page, error) {
	tx, cancel := r.conn(ctx)
	defer cancel()

	var total int64
	if err := filtered(tx, q).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count tournaments: %w", err)
	}
	if total == 0 {
		return NewPage(nil, 0, q), nil
	}

	var items []*Tournament
	if err := window(tx, q).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return NewPage(items, total, q), nil
}

// Fingerprint summarizes the table's row count and latest write so callers
// can detect changes without reading rows.
func (r *Repository) Fingerprint(ctx context.Context) (string, error) {
	tx, cancel := r.conn(ctx)
	defer cancel()

	var row struct {
		Count  int64
		Latest *time.Time
	}
	err := tx.Model(&Tournament{}).
		Select("count(*) AS count, max(updated_at) AS latest").
		Scan(&row).Error
	if err != nil {
		return "", fmt.Errorf("fingerprint tournaments: %w", err)
	}
	var latest int64
	if row.Latest != nil {
		latest = row.Latest.UnixMicro()
	}
	return fmt.Sprintf("%d:%d", row.Count, latest), nil
}

// Analyze refreshes planner statistics for the table.
func (r *Repository) Analyze(ctx context.Context) error {
	tx, cancel := r.conn(ctx)
	defer cancel()

	if err := tx.Exec("ANALYZE " + config.TournamentsTable).Error; err != nil {
		return fmt.Errorf("analyze tournaments: %w", err)
	}
	return nil
}

// filtered starts a fresh statement carrying the query's filters.
func filtered(tx *gorm.DB, q ListQuery) *gorm.DB {
	stmt := tx.Model(&Tournament{})
	if q.Title != "" {
		stmt = stmt.Where("title ILIKE ?", "%"+escapeLike(q.Title)+"%")
	}
	if q.City != "" {
		stmt = stmt.Where("city ILIKE ?", "%"+escapeLike(q.City)+"%")
	}
	return stmt
}

// window orders the filtered rows newest first and selects the page.
func window(tx *gorm.DB, q ListQuery) *gorm.DB {
	return filtered(tx, q).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.Limit)
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case db.IsUniqueViolation(err):
		return ErrDuplicateTitle
	}
	return fmt.Errorf("%s: %w", op, err)
}
