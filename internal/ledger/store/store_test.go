package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

func TestOpenCreatesSchema(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "tenant.db"))
	require.NoError(t, err)
	defer st.Close()

	tables, err := st.Tables()
	require.NoError(t, err)
	for _, want := range domain.RequiredTables {
		assert.Contains(t, tables, want)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenant.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.DB.Exec(
		`INSERT INTO customer (id, firstName, lastName, gender, institution, street, number, postalCode, place)
		 VALUES (0, '', 'Muster', 2, '', '', '', '', '')`,
	).Error)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	var count int64
	require.NoError(t, st.DB.Raw(`SELECT count(*) FROM customer`).Row().Scan(&count))
	assert.Equal(t, int64(1), count)
}

func TestVersionRowWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenant.db")

	for i := 0; i < 2; i++ {
		st, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, st.Close())
	}

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	var rows int64
	require.NoError(t, st.DB.Raw(`SELECT count(*) FROM VERSION_INFO`).Row().Scan(&rows))
	assert.Equal(t, int64(1), rows)

	v, err := st.Version()
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, v)
}

func TestInspectDoesNotRepairStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foreign.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.DB.Exec(`DROP TABLE bill`).Error)
	require.NoError(t, st.Close())

	ins, err := Inspect(path)
	require.NoError(t, err)
	defer ins.Close()

	tables, err := ins.Tables()
	require.NoError(t, err)
	assert.NotContains(t, tables, "bill")
}
