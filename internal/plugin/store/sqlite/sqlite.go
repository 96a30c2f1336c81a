package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hivemind/memory-store/internal/config"
	"github.com/hivemind/memory-store/internal/model"
	registrymigrate "github.com/hivemind/memory-store/internal/registry/migrate"
	registrystore "github.com/hivemind/memory-store/internal/registry/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ForceImport allows test packages to reference this package so its init()
// registration runs.
var ForceImport struct{}

func init() {
	registrystore.Register(registrystore.Plugin{
		Name:   "sqlite",
		Loader: load,
	})
	registrymigrate.Register(registrymigrate.Plugin{Order: 100, Migrator: &sqliteMigrator{}})
}

func load(ctx context.Context) (registrystore.RecordStore, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("sqlite: missing config in context")
	}
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func open(cfg *config.Config) (*gorm.DB, error) {
	path := cfg.ResolvedDBPath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create data dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return db, nil
}

type sqliteMigrator struct{}

func (m *sqliteMigrator) Name() string { return "sqlite-schema" }
func (m *sqliteMigrator) Migrate(ctx context.Context) error {
	cfg := config.FromContext(ctx)
	if cfg == nil || !cfg.MigrateAtStart || cfg.StoreType != "sqlite" {
		return nil
	}
	log.Debug("Running migration", "name", m.Name())
	db, err := open(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if _, err := sqlDB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migration: execute schema: %w", err)
	}
	return nil
}

// SQLiteStore implements RecordStore using GORM + SQLite.
type SQLiteStore struct {
	db *gorm.DB
}

func (s *SQLiteStore) Upsert(ctx context.Context, key, value, category string) (*model.MemoryRecord, error) {
	if category == "" {
		category = "general"
	}
	now := time.Now().UTC()
	// Insert-or-replace keyed on the primary key. The conflict branch keeps
	// created_at from the first write and always demotes sync_state.
	err := s.db.WithContext(ctx).Exec(`
		INSERT INTO memory_records (key, value, category, created_at, updated_at, sync_state)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			category   = excluded.category,
			updated_at = excluded.updated_at,
			sync_state = excluded.sync_state`,
		key, value, category, now, now, model.SyncStateUnsynced,
	).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: upsert %q: %w", key, err)
	}
	return s.Get(ctx, key)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*model.MemoryRecord, error) {
	var rec model.MemoryRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, registrystore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&model.MemoryRecord{}, "key = ?", key)
	if result.Error != nil {
		return false, fmt.Errorf("sqlite: delete %q: %w", key, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *SQLiteStore) List(ctx context.Context, category string) ([]model.MemoryRecord, error) {
	query := s.db.WithContext(ctx).Order("updated_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var records []model.MemoryRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) KeywordSearch(ctx context.Context, query string, limit int) ([]model.MemoryRecord, error) {
	// SQLite LIKE is case-insensitive for ASCII, which matches the intended
	// substring semantics.
	pattern := "%" + query + "%"
	var records []model.MemoryRecord
	err := s.db.WithContext(ctx).
		Where("key LIKE ? OR value LIKE ? OR category LIKE ?", pattern, pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: keyword search: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) ListUnsynced(ctx context.Context) ([]model.MemoryRecord, error) {
	var records []model.MemoryRecord
	err := s.db.WithContext(ctx).
		Where("sync_state = ?", model.SyncStateUnsynced).
		Order("updated_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: list unsynced: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) MarkSynced(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Model(&model.MemoryRecord{}).
		Where("key = ?", key).
		Update("sync_state", model.SyncStateSynced).Error
	if err != nil {
		return fmt.Errorf("sqlite: mark synced %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Counts(ctx context.Context) (int64, int64, error) {
	var total, unsynced int64
	if err := s.db.WithContext(ctx).Model(&model.MemoryRecord{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("sqlite: count: %w", err)
	}
	err := s.db.WithContext(ctx).
		Model(&model.MemoryRecord{}).
		Where("sync_state = ?", model.SyncStateUnsynced).
		Count(&unsynced).Error
	if err != nil {
		return 0, 0, fmt.Errorf("sqlite: count unsynced: %w", err)
	}
	return total, unsynced, nil
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ registrystore.RecordStore = (*SQLiteStore)(nil)
