package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/store"
)

func newTestLedger(t *testing.T) domain.Ledger {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tenant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st.DB, zap.NewNop())
}

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCustomerIDsStartAtZeroAndIncrement(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for want := int64(0); want < 3; want++ {
		id, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
		assert.NoError(t, err)
		assert.Equal(t, want, id)
	}
}

func TestServiceComplexAndGlobalServiceIDs(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)

	sc1, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sc1)
	sc2, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sc2)

	// service ids are one global space across complexes
	fields := domain.ServiceFields{Description: "x", Date: domain.Date{Day: 1, Month: 1, Year: 2024}}
	id0, err := l.CreateService(ctx, sc1, fields)
	require.NoError(t, err)
	id1, err := l.CreateService(ctx, sc2, fields)
	require.NoError(t, err)
	id2, err := l.CreateService(ctx, sc1, fields)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, []int64{id0, id1, id2})
}

func TestBillNumberingRestartsPerYear(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)

	newBill := func(year int) int64 {
		sc, err := l.CreateServiceComplex(ctx, cID)
		require.NoError(t, err)
		id, err := l.CreateBill(ctx, domain.CreateBillRequest{
			ServiceComplexID: sc,
			ProviderID:       1,
			Date:             domain.Date{Day: 1, Month: 1, Year: year},
			Keyword:          "Rechnung",
			Valid:            true,
		})
		require.NoError(t, err)
		return id
	}

	assert.Equal(t, int64(0), newBill(2024))
	assert.Equal(t, int64(1), newBill(2024))
	assert.Equal(t, int64(2), newBill(2024))
	// a new year restarts at zero, independent of other years
	assert.Equal(t, int64(0), newBill(2025))
	assert.Equal(t, int64(3), newBill(2024))
}

func TestCreateBillRejectsAlreadyBilledComplex(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)
	sc, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)

	req := domain.CreateBillRequest{
		ServiceComplexID: sc,
		Date:             domain.Date{Day: 1, Month: 1, Year: 2024},
		Valid:            true,
	}
	_, err = l.CreateBill(ctx, req)
	require.NoError(t, err)

	_, err = l.CreateBill(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestCreateBillUnknownComplex(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.CreateBill(context.Background(), domain.CreateBillRequest{
		ServiceComplexID: 42,
		Date:             domain.Date{Day: 1, Month: 1, Year: 2024},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteServiceComplexCascades(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)
	sc, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := l.CreateService(ctx, sc, domain.ServiceFields{
			Description: "Beratung",
			Price:       amount("10.00"),
			Date:        domain.Date{Day: i + 1, Month: 1, Year: 2024},
		})
		require.NoError(t, err)
	}

	require.NoError(t, l.DeleteServiceComplex(ctx, sc))

	services, err := l.ServicesByComplex(ctx, sc)
	assert.NoError(t, err)
	assert.Empty(t, services)

	assert.ErrorIs(t, l.DeleteServiceComplex(ctx, sc), domain.ErrNotFound)
}

func TestServicesOrderedByDateFields(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)
	sc, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)

	// inserted out of order; the sort is year, then month, then day
	dates := []domain.Date{
		{Day: 1, Month: 2, Year: 2024},
		{Day: 31, Month: 1, Year: 2024},
		{Day: 15, Month: 1, Year: 2023},
	}
	for _, d := range dates {
		_, err := l.CreateService(ctx, sc, domain.ServiceFields{Description: "x", Date: d})
		require.NoError(t, err)
	}

	services, err := l.ServicesByComplex(ctx, sc)
	require.NoError(t, err)
	require.Len(t, services, 3)
	assert.Equal(t, domain.Date{Day: 15, Month: 1, Year: 2023}, services[0].Date)
	assert.Equal(t, domain.Date{Day: 31, Month: 1, Year: 2024}, services[1].Date)
	assert.Equal(t, domain.Date{Day: 1, Month: 2, Year: 2024}, services[2].Date)
}

func TestUpdateAndDeleteServiceMisses(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	err := l.UpdateService(ctx, 7, domain.ServiceFields{Description: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, l.DeleteService(ctx, 7), domain.ErrNotFound)
}

func TestUpdateBillFlags(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{LastName: "Muster"})
	require.NoError(t, err)
	sc, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)
	id, err := l.CreateBill(ctx, domain.CreateBillRequest{
		ServiceComplexID: sc,
		Date:             domain.Date{Day: 1, Month: 3, Year: 2024},
		Keyword:          "Rechnung",
		Valid:            true,
	})
	require.NoError(t, err)

	require.NoError(t, l.UpdateBillFlags(ctx, id, 2024, false, true))

	bill, err := l.BillByID(ctx, id, 2024)
	require.NoError(t, err)
	assert.False(t, bill.Valid)
	assert.True(t, bill.Paid)
	// identity and content stay untouched
	assert.Equal(t, "Rechnung", bill.Keyword)
	assert.Equal(t, sc, bill.ServiceComplexID)

	assert.ErrorIs(t, l.UpdateBillFlags(ctx, id, 2023, true, false), domain.ErrNotFound)
}

func TestBillByIDMiss(t *testing.T) {
	l := newTestLedger(t)
	_, err := l.BillByID(context.Background(), 0, 1999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProviderActivationExclusive(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	_, err := l.ActiveProvider(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := l.CreateProvider(ctx, domain.ProviderFields{LastName: "Alt", IBAN: "DE01", BIC: "AAA"})
	require.NoError(t, err)
	second, err := l.CreateProvider(ctx, domain.ProviderFields{LastName: "Neu", IBAN: "DE02", BIC: "BBB"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	active, err := l.ActiveProvider(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, active.ID)
	assert.Equal(t, "Neu", active.LastName)

	old, err := l.ProviderByID(ctx, first)
	require.NoError(t, err)
	assert.False(t, old.Active)
}

func TestBillRenderDataBundle(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	cID, err := l.CreateCustomer(ctx, domain.CustomerFields{Institution: "Acme Corp"})
	require.NoError(t, err)
	sc, err := l.CreateServiceComplex(ctx, cID)
	require.NoError(t, err)
	pID, err := l.CreateProvider(ctx, domain.ProviderFields{LastName: "Muster", TaxID: "12 345", IBAN: "DE01", BIC: "AAA"})
	require.NoError(t, err)
	_, err = l.CreateService(ctx, sc, domain.ServiceFields{
		Description: "Consulting",
		Price:       amount("100.00"),
		Date:        domain.Date{Day: 1, Month: 1, Year: 2024},
	})
	require.NoError(t, err)

	id, err := l.CreateBill(ctx, domain.CreateBillRequest{
		ServiceComplexID: sc,
		ProviderID:       pID,
		Date:             domain.Date{Day: 2, Month: 1, Year: 2024},
		Keyword:          "Rechnung Januar",
		Valid:            true,
	})
	require.NoError(t, err)

	data, err := l.BillRenderData(ctx, id, 2024)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", data.Customer.Institution)
	assert.Equal(t, pID, data.Provider.ID)
	assert.Len(t, data.Services, 1)
	assert.Equal(t, "2024-000", data.Bill.Number())
}

func TestVersionRecord(t *testing.T) {
	l := newTestLedger(t)
	v, err := l.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, v)
}

func TestErrorsAreDistinguishable(t *testing.T) {
	assert.False(t, errors.Is(domain.ErrNotFound, domain.ErrPrecondition))
}
