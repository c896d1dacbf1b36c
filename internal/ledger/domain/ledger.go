package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrPrecondition = errors.New("precondition_failed")
)

type CustomerFields struct {
	FirstName   string
	LastName    string
	Gender      int
	Institution string
	Street      string
	Number      string
	PostalCode  string
	Place       string
}

type ProviderFields struct {
	TaxID      string
	FirstName  string
	LastName   string
	Gender     int
	Street     string
	Number     string
	PostalCode string
	Place      string
	Telephone  string
	Email      string
	IBAN       string
	BIC        string
	Website    string
}

type ServiceFields struct {
	Description     string
	Price           decimal.Decimal
	AdditionalPrice decimal.Decimal
	Date            Date
}

type CreateBillRequest struct {
	ServiceComplexID   int64
	ProviderID         int64
	Date               Date
	Keyword            string
	Comment            string
	SmallBusinessOwner bool
	Valid              bool
	Paid               bool
}

// BillRenderData bundles everything a document render needs for one bill.
// The renderer never touches the store itself.
type BillRenderData struct {
	Bill     Bill
	Provider Provider
	Customer Customer
	Services []Service
}

// Ledger is the per-tenant data store. One handle per opened tenant store;
// the caller owns the handle and swaps it on tenant activation.
type Ledger interface {
	CreateCustomer(ctx context.Context, fields CustomerFields) (int64, error)
	Customers(ctx context.Context) ([]Customer, error)

	CreateServiceComplex(ctx context.Context, customerID int64) (int64, error)
	ReassignServiceComplex(ctx context.Context, scID, customerID int64) error
	DeleteServiceComplex(ctx context.Context, scID int64) error

	CreateService(ctx context.Context, scID int64, fields ServiceFields) (int64, error)
	UpdateService(ctx context.Context, id int64, fields ServiceFields) error
	DeleteService(ctx context.Context, id int64) error
	ServicesByComplex(ctx context.Context, scID int64) ([]Service, error)
	CustomerByComplex(ctx context.Context, scID int64) (Customer, error)

	CreateBill(ctx context.Context, req CreateBillRequest) (int64, error)
	UpdateBillFlags(ctx context.Context, id int64, year int, valid, paid bool) error
	BillByID(ctx context.Context, id int64, year int) (Bill, error)
	BillRenderData(ctx context.Context, id int64, year int) (BillRenderData, error)

	CreateProvider(ctx context.Context, fields ProviderFields) (int64, error)
	ProviderByID(ctx context.Context, id int64) (Provider, error)
	ActiveProvider(ctx context.Context) (Provider, error)

	Version(ctx context.Context) (VersionInfo, error)
}
