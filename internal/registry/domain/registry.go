package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("not_found")
	ErrPrecondition      = errors.New("precondition_failed")
	ErrIncompatibleStore = errors.New("incompatible_store")
	// ErrVersionMismatch is advisory: the store is still usable.
	ErrVersionMismatch = errors.New("version_mismatch")
)

// TenantEntry is one registry row: a provider (tenant) and the location of
// its ledger store. Exactly one entry is active at any time.
type TenantEntry struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	Keyword string `gorm:"column:keyword" json:"keyword"`
	Dir     string `gorm:"column:dir" json:"dir"`
	Active  bool   `gorm:"column:active" json:"active"`
}

func (TenantEntry) TableName() string { return "provider" }

// Registry enumerates tenants and tracks the active one. It owns the
// mapping from tenant id to store location; cleaning up a deleted tenant's
// store file is the caller's responsibility.
type Registry interface {
	ListTenants(ctx context.Context) ([]TenantEntry, error)
	ActiveTenant(ctx context.Context) (*TenantEntry, error)
	CreateTenant(ctx context.Context, keyword, dir string) (int64, error)
	ActivateTenant(ctx context.Context, id int64) error
	NextTenantID(ctx context.Context) (int64, error)
	DeleteTenant(ctx context.Context, id int64) error

	// ValidateImport checks a foreign tenant store before registration.
	// A nil error or ErrVersionMismatch means the store is usable;
	// ErrVersionMismatch should surface as a non-blocking advisory.
	ValidateImport(ctx context.Context, path string) error

	Close() error
}
