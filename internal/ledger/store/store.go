// Package store opens and closes per-tenant ledger stores. Each tenant owns
// one sqlite file; opening an existing file never overwrites data.
package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customer (
		id INTEGER PRIMARY KEY,
		firstName TEXT,
		lastName TEXT,
		gender INTEGER,
		institution TEXT,
		street TEXT,
		number TEXT,
		postalCode TEXT,
		place TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS serviceComplex (
		id INTEGER PRIMARY KEY,
		customerId INTEGER,
		FOREIGN KEY (customerId) REFERENCES customer(id)
	)`,
	`CREATE TABLE IF NOT EXISTS service (
		id INTEGER PRIMARY KEY,
		serviceComplexId INTEGER,
		description TEXT,
		price DECIMAL(18,4),
		additionalPrice DECIMAL(18,4),
		day INTEGER,
		month INTEGER,
		year INTEGER,
		FOREIGN KEY (serviceComplexId) REFERENCES serviceComplex(id)
	)`,
	`CREATE TABLE IF NOT EXISTS bill (
		id INTEGER,
		serviceComplexId INTEGER,
		providerId INTEGER,
		day INTEGER,
		month INTEGER,
		year INTEGER,
		keyword TEXT,
		comment TEXT,
		smallBusinessOwner BOOL,
		valid BOOL,
		paid BOOL,
		FOREIGN KEY (serviceComplexId) REFERENCES serviceComplex(id),
		PRIMARY KEY (id, year)
	)`,
	`CREATE TABLE IF NOT EXISTS provider (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taxId TEXT,
		firstName TEXT,
		lastName TEXT,
		gender INTEGER,
		street TEXT,
		number TEXT,
		postalCode TEXT,
		place TEXT,
		telephone TEXT,
		email TEXT,
		IBAN TEXT,
		BIC TEXT,
		WEBSITE TEXT,
		ACTIVE BOOL
	)`,
	`CREATE TABLE IF NOT EXISTS VERSION_INFO (
		major INTEGER,
		minor INTEGER,
		patch INTEGER,
		additional TEXT
	)`,
}

// Store is a scoped acquisition of one tenant's sqlite file. Close releases
// the underlying connection on every exit path; mutations commit per call,
// so Close never loses writes.
type Store struct {
	DB *gorm.DB
}

// Open opens the tenant store at path, creating it and its tables when
// absent. The schema version row is written exactly once, on creation.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open tenant store %s: %w", path, err)
	}

	for _, ddl := range schema {
		if err := db.Exec(ddl).Error; err != nil {
			return nil, fmt.Errorf("ensure tables: %w", err)
		}
	}
	if err := ensureVersion(db); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

func ensureVersion(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.VersionInfo{}).Count(&n).Error; err != nil {
		return fmt.Errorf("read version info: %w", err)
	}
	if n > 0 {
		return nil
	}
	v := domain.SchemaVersion
	return db.Exec(
		`INSERT INTO VERSION_INFO (major, minor, patch, additional) VALUES (?, ?, ?, ?)`,
		v.Major, v.Minor, v.Patch, v.Additional,
	).Error
}

// Inspect opens an existing store read-style, without ensuring tables or a
// version row. Used to examine foreign stores before import.
func Inspect(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Store{DB: db}, nil
}

// Tables lists the table names present in the store.
func (s *Store) Tables() ([]string, error) {
	var names []string
	err := s.DB.Raw(`SELECT name FROM sqlite_master WHERE type='table'`).Scan(&names).Error
	return names, err
}

// Version reads the store's VERSION_INFO row.
func (s *Store) Version() (domain.VersionInfo, error) {
	var v domain.VersionInfo
	row := s.DB.Raw(`SELECT major, minor, patch, additional FROM VERSION_INFO`).Row()
	if err := row.Scan(&v.Major, &v.Minor, &v.Patch, &v.Additional); err != nil {
		return domain.VersionInfo{}, fmt.Errorf("read version info: %w", err)
	}
	return v, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
