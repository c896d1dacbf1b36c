package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"go.uber.org/zap"

	ledgerdomain "github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/store"
	"github.com/smallbiznis/faktura/internal/registry/domain"
)

// ValidateImport checks a foreign tenant store: it must open under the
// persistence engine, contain all required tables, and not be a
// byte-identical duplicate of an already-registered store. A schema version
// mismatch is reported as ErrVersionMismatch but leaves the store usable.
func (r *registry) ValidateImport(ctx context.Context, path string) error {
	hash, err := fileHash(path)
	if err != nil {
		return fmt.Errorf("%w: unreadable store: %v", domain.ErrIncompatibleStore, err)
	}

	entries, err := r.ListTenants(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		existing, err := fileHash(e.Dir)
		if err != nil {
			// a registered store gone missing is not the import's problem
			continue
		}
		if existing == hash {
			return fmt.Errorf("%w: duplicate of tenant %q", domain.ErrIncompatibleStore, e.Keyword)
		}
	}

	s, err := store.Inspect(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIncompatibleStore, err)
	}
	defer s.Close()

	tables, err := s.Tables()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIncompatibleStore, err)
	}
	have := make(map[string]bool, len(tables))
	for _, t := range tables {
		have[t] = true
	}
	for _, required := range ledgerdomain.RequiredTables {
		if !have[required] {
			return fmt.Errorf("%w: missing table %s", domain.ErrIncompatibleStore, required)
		}
	}

	v, err := s.Version()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIncompatibleStore, err)
	}
	current := ledgerdomain.SchemaVersion
	if v.Major != current.Major {
		r.log.Warn("store schema major version differs",
			zap.String("store", v.String()), zap.String("current", current.String()))
		return fmt.Errorf("%w: store %s, current %s", domain.ErrVersionMismatch, v, current)
	}
	if v.Major == 0 && v.Minor != current.Minor {
		r.log.Warn("store schema minor version differs under major 0",
			zap.String("store", v.String()), zap.String("current", current.String()))
		return fmt.Errorf("%w: store %s, current %s", domain.ErrVersionMismatch, v, current)
	}
	return nil
}

func fileHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
