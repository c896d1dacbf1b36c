package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smallbiznis/faktura/internal/registry/domain"
)

const registryTable = `CREATE TABLE IF NOT EXISTS provider (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	keyword TEXT,
	dir TEXT,
	active BOOLEAN
)`

type registry struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open opens (or creates) the tenant registry store at path.
func Open(path string, log *zap.Logger) (domain.Registry, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open registry store %s: %w", path, err)
	}
	if err := db.Exec(registryTable).Error; err != nil {
		return nil, fmt.Errorf("ensure registry table: %w", err)
	}
	return &registry{db: db, log: log.Named("registry.service")}, nil
}

func (r *registry) ListTenants(ctx context.Context) ([]domain.TenantEntry, error) {
	var entries []domain.TenantEntry
	err := r.db.WithContext(ctx).Order("id").Find(&entries).Error
	return entries, err
}

func (r *registry) ActiveTenant(ctx context.Context) (*domain.TenantEntry, error) {
	var entries []domain.TenantEntry
	err := r.db.WithContext(ctx).Where("active = ?", true).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// CreateTenant deactivates every entry and inserts the new one as active,
// in one transaction: readers never observe zero or two active entries.
func (r *registry) CreateTenant(ctx context.Context, keyword, dir string) (int64, error) {
	var id int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE provider SET active = ?`, false).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`INSERT INTO provider (keyword, dir, active) VALUES (?, ?, ?)`, keyword, dir, true,
		).Error; err != nil {
			return err
		}
		return tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	r.log.Info("tenant created", zap.Int64("id", id), zap.String("keyword", keyword))
	return id, nil
}

func (r *registry) ActivateTenant(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE provider SET active = ?`, false).Error; err != nil {
			return err
		}
		res := tx.Exec(`UPDATE provider SET active = ? WHERE id = ?`, true, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("tenant %d: %w", id, domain.ErrNotFound)
		}
		return nil
	})
}

// NextTenantID pre-allocates the id used to name a new tenant's store file
// before its row exists. max+1, or 1 when the registry is empty, matching
// sqlite's AUTOINCREMENT assignment on the later insert.
func (r *registry) NextTenantID(ctx context.Context) (int64, error) {
	var max sql.NullInt64
	row := r.db.WithContext(ctx).Raw(`SELECT MAX(id) FROM provider`).Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("next tenant id: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return max.Int64 + 1, nil
}

func (r *registry) DeleteTenant(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entries []domain.TenantEntry
		if err := tx.Where("id = ?", id).Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("tenant %d: %w", id, domain.ErrNotFound)
		}
		if entries[0].Active {
			return fmt.Errorf("tenant %d is active: %w", id, domain.ErrPrecondition)
		}
		return tx.Exec(`DELETE FROM provider WHERE id = ?`, id).Error
	})
}

func (r *registry) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
