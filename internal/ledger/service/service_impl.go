package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

type ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

// New builds a Ledger over an opened tenant store handle.
func New(db *gorm.DB, log *zap.Logger) domain.Ledger {
	return &ledger{db: db, log: log.Named("ledger.service")}
}

// nextID computes max(id)+1 for a table inside tx. Empty tables start at
// the given floor: customers, complexes and services start at 0.
func nextID(tx *gorm.DB, table string, floor int64) (int64, error) {
	var max sql.NullInt64
	row := tx.Raw(fmt.Sprintf("SELECT MAX(id) FROM %s", table)).Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("next id for %s: %w", table, err)
	}
	if !max.Valid {
		return floor, nil
	}
	return max.Int64 + 1, nil
}

func (l *ledger) CreateCustomer(ctx context.Context, f domain.CustomerFields) (int64, error) {
	var id int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if id, err = nextID(tx, "customer", 0); err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO customer (id, firstName, lastName, gender, institution, street, number, postalCode, place)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, f.FirstName, f.LastName, f.Gender, f.Institution, f.Street, f.Number, f.PostalCode, f.Place,
		).Error
	})
	if err != nil {
		return 0, err
	}
	l.log.Debug("customer created", zap.Int64("id", id))
	return id, nil
}

func (l *ledger) Customers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := l.db.WithContext(ctx).Order("id").Find(&customers).Error
	return customers, err
}

func (l *ledger) CreateServiceComplex(ctx context.Context, customerID int64) (int64, error) {
	var id int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if id, err = nextID(tx, "serviceComplex", 0); err != nil {
			return err
		}
		return tx.Exec(`INSERT INTO serviceComplex (id, customerId) VALUES (?, ?)`, id, customerID).Error
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (l *ledger) ReassignServiceComplex(ctx context.Context, scID, customerID int64) error {
	res := l.db.WithContext(ctx).Exec(
		`UPDATE serviceComplex SET customerId = ? WHERE id = ?`, customerID, scID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service complex %d: %w", scID, domain.ErrNotFound)
	}
	return nil
}

// DeleteServiceComplex removes the complex and cascades to its services.
func (l *ledger) DeleteServiceComplex(ctx context.Context, scID int64) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`DELETE FROM serviceComplex WHERE id = ?`, scID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("service complex %d: %w", scID, domain.ErrNotFound)
		}
		return tx.Exec(`DELETE FROM service WHERE serviceComplexId = ?`, scID).Error
	})
}

func (l *ledger) CreateService(ctx context.Context, scID int64, f domain.ServiceFields) (int64, error) {
	var id int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		// one global id space across all complexes
		if id, err = nextID(tx, "service", 0); err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO service (id, serviceComplexId, description, price, additionalPrice, day, month, year)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, scID, f.Description, f.Price, f.AdditionalPrice, f.Date.Day, f.Date.Month, f.Date.Year,
		).Error
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (l *ledger) UpdateService(ctx context.Context, id int64, f domain.ServiceFields) error {
	res := l.db.WithContext(ctx).Exec(
		`UPDATE service SET description = ?, price = ?, additionalPrice = ?, day = ?, month = ?, year = ? WHERE id = ?`,
		f.Description, f.Price, f.AdditionalPrice, f.Date.Day, f.Date.Month, f.Date.Year, id,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (l *ledger) DeleteService(ctx context.Context, id int64) error {
	res := l.db.WithContext(ctx).Exec(`DELETE FROM service WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("service %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ServicesByComplex returns the complex's services ordered by year, month,
// day. The columns are independent integers, so this is a per-field sort,
// not a chronological one.
func (l *ledger) ServicesByComplex(ctx context.Context, scID int64) ([]domain.Service, error) {
	var services []domain.Service
	err := l.db.WithContext(ctx).
		Where("serviceComplexId = ?", scID).
		Order("year, month, day").
		Find(&services).Error
	return services, err
}

func (l *ledger) CustomerByComplex(ctx context.Context, scID int64) (domain.Customer, error) {
	var customers []domain.Customer
	err := l.db.WithContext(ctx).Raw(
		`SELECT customer.* FROM customer, serviceComplex
		 WHERE serviceComplex.id = ? AND customer.id = serviceComplex.customerId`, scID,
	).Scan(&customers).Error
	if err != nil {
		return domain.Customer{}, err
	}
	if len(customers) == 0 {
		return domain.Customer{}, fmt.Errorf("customer of complex %d: %w", scID, domain.ErrNotFound)
	}
	return customers[0], nil
}

func (l *ledger) CreateBill(ctx context.Context, req domain.CreateBillRequest) (int64, error) {
	var id int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.ServiceComplex{}).Where("id = ?", req.ServiceComplexID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("service complex %d: %w", req.ServiceComplexID, domain.ErrNotFound)
		}
		// a complex is billed at most once
		if err := tx.Model(&domain.Bill{}).Where("serviceComplexId = ?", req.ServiceComplexID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("service complex %d already billed: %w", req.ServiceComplexID, domain.ErrPrecondition)
		}

		var err error
		if id, err = nextBillNumber(tx, req.Date.Year); err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO bill (id, serviceComplexId, providerId, day, month, year, keyword, comment, smallBusinessOwner, valid, paid)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, req.ServiceComplexID, req.ProviderID, req.Date.Day, req.Date.Month, req.Date.Year,
			req.Keyword, req.Comment, req.SmallBusinessOwner, req.Valid, req.Paid,
		).Error
	})
	if err != nil {
		return 0, err
	}
	l.log.Info("bill created",
		zap.Int64("id", id),
		zap.Int("year", req.Date.Year),
		zap.Int64("service_complex_id", req.ServiceComplexID),
	)
	return id, nil
}

// UpdateBillFlags is the only mutation a bill supports after creation.
func (l *ledger) UpdateBillFlags(ctx context.Context, id int64, year int, valid, paid bool) error {
	res := l.db.WithContext(ctx).Exec(
		`UPDATE bill SET valid = ?, paid = ? WHERE id = ? AND year = ?`, valid, paid, id, year,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bill %d-%d: %w", year, id, domain.ErrNotFound)
	}
	return nil
}

func (l *ledger) BillByID(ctx context.Context, id int64, year int) (domain.Bill, error) {
	var bills []domain.Bill
	err := l.db.WithContext(ctx).Where("id = ? AND year = ?", id, year).Find(&bills).Error
	if err != nil {
		return domain.Bill{}, err
	}
	if len(bills) == 0 {
		return domain.Bill{}, fmt.Errorf("bill %d-%d: %w", year, id, domain.ErrNotFound)
	}
	return bills[0], nil
}

func (l *ledger) BillRenderData(ctx context.Context, id int64, year int) (domain.BillRenderData, error) {
	bill, err := l.BillByID(ctx, id, year)
	if err != nil {
		return domain.BillRenderData{}, err
	}
	provider, err := l.ProviderByID(ctx, bill.ProviderID)
	if err != nil {
		return domain.BillRenderData{}, err
	}
	customer, err := l.CustomerByComplex(ctx, bill.ServiceComplexID)
	if err != nil {
		return domain.BillRenderData{}, err
	}
	services, err := l.ServicesByComplex(ctx, bill.ServiceComplexID)
	if err != nil {
		return domain.BillRenderData{}, err
	}
	return domain.BillRenderData{
		Bill:     bill,
		Provider: provider,
		Customer: customer,
		Services: services,
	}, nil
}

// CreateProvider inserts a new tenant profile and makes it the active one.
// Exactly one profile row is active at any time.
func (l *ledger) CreateProvider(ctx context.Context, f domain.ProviderFields) (int64, error) {
	var id int64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`UPDATE provider SET ACTIVE = ?`, false).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`INSERT INTO provider (taxId, firstName, lastName, gender, street, number, postalCode, place, telephone, email, IBAN, BIC, WEBSITE, ACTIVE)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.TaxID, f.FirstName, f.LastName, f.Gender, f.Street, f.Number, f.PostalCode, f.Place,
			f.Telephone, f.Email, f.IBAN, f.BIC, f.Website, true,
		).Error; err != nil {
			return err
		}
		return tx.Raw(`SELECT last_insert_rowid()`).Row().Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (l *ledger) ProviderByID(ctx context.Context, id int64) (domain.Provider, error) {
	var providers []domain.Provider
	err := l.db.WithContext(ctx).Where("id = ?", id).Find(&providers).Error
	if err != nil {
		return domain.Provider{}, err
	}
	if len(providers) == 0 {
		return domain.Provider{}, fmt.Errorf("provider %d: %w", id, domain.ErrNotFound)
	}
	return providers[0], nil
}

func (l *ledger) ActiveProvider(ctx context.Context) (domain.Provider, error) {
	var providers []domain.Provider
	err := l.db.WithContext(ctx).Where("ACTIVE = ?", true).Find(&providers).Error
	if err != nil {
		return domain.Provider{}, err
	}
	if len(providers) == 0 {
		return domain.Provider{}, fmt.Errorf("active provider: %w", domain.ErrNotFound)
	}
	return providers[0], nil
}

func (l *ledger) Version(ctx context.Context) (domain.VersionInfo, error) {
	var v domain.VersionInfo
	row := l.db.WithContext(ctx).Raw(`SELECT major, minor, patch, additional FROM VERSION_INFO`).Row()
	if err := row.Scan(&v.Major, &v.Minor, &v.Patch, &v.Additional); err != nil {
		return domain.VersionInfo{}, fmt.Errorf("version info: %w", err)
	}
	return v, nil
}
