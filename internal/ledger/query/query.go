// Package query holds the read-side projections over a tenant store: the
// open-complex and bill tables shown in the UI layer and the invoice
// overview export.
package query

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

// ComplexSummary is one row of the open-service-complex projection. Total
// is zero when the complex has no services yet.
type ComplexSummary struct {
	ID                  int64           `json:"id"`
	CustomerDisplayName string          `json:"customer_display_name"`
	ServiceCount        int64           `json:"service_count"`
	Total               decimal.Decimal `json:"total"`
}

// BillSummary is one row of the bill projections.
type BillSummary struct {
	NumberingID         int64           `json:"numbering_id"`
	Year                int             `json:"year"`
	CustomerDisplayName string          `json:"customer_display_name"`
	Keyword             string          `json:"keyword"`
	Total               decimal.Decimal `json:"total"`
}

// OverviewRow is one service line of the invoice overview: customer and
// bill fields plus that service's two price components.
type OverviewRow struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Institution     string          `json:"institution"`
	BillID          int64           `json:"bill_id"`
	Keyword         string          `json:"keyword"`
	Date            domain.Date     `json:"date"`
	Price           decimal.Decimal `json:"price"`
	AdditionalPrice decimal.Decimal `json:"additional_price"`
	Valid           bool            `json:"valid"`
	Paid            bool            `json:"paid"`
}

func (r OverviewRow) DisplayName() string {
	c := domain.Customer{LastName: r.LastName, Institution: r.Institution}
	return c.DisplayName()
}

// AllCustomers selects every customer in BillOverview.
const AllCustomers = "*"

type OverviewRequest struct {
	// CustomerFilter is AllCustomers or a customer display name.
	CustomerFilter string
	Start          domain.Date
	End            domain.Date
	// Calendar switches the date filter from the historical per-field
	// comparison to a true chronological range.
	Calendar bool
}

type Queries struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Queries {
	return &Queries{db: db, log: log.Named("ledger.query")}
}

// OpenServiceComplexes lists complexes not yet referenced by any bill,
// with their owner's display name, service count and aggregate amount.
func (q *Queries) OpenServiceComplexes(ctx context.Context) ([]ComplexSummary, error) {
	type row struct {
		ID          int64  `gorm:"column:id"`
		LastName    string `gorm:"column:lastName"`
		Institution string `gorm:"column:institution"`
	}
	var rows []row
	err := q.db.WithContext(ctx).Raw(
		`SELECT serviceComplex.id, customer.lastName, customer.institution
		 FROM customer, serviceComplex
		 WHERE serviceComplex.id NOT IN (SELECT serviceComplexId FROM bill)
		   AND customer.id = serviceComplex.customerId
		 ORDER BY serviceComplex.id`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ComplexSummary, 0, len(rows))
	for _, r := range rows {
		count, total, err := q.complexTotal(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		c := domain.Customer{LastName: r.LastName, Institution: r.Institution}
		summaries = append(summaries, ComplexSummary{
			ID:                  r.ID,
			CustomerDisplayName: c.DisplayName(),
			ServiceCount:        count,
			Total:               total,
		})
	}
	return summaries, nil
}

// complexTotal sums price+additionalPrice over a complex's services. A
// complex without services aggregates to zero, not an error.
func (q *Queries) complexTotal(ctx context.Context, scID int64) (int64, decimal.Decimal, error) {
	var services []domain.Service
	err := q.db.WithContext(ctx).Where("serviceComplexId = ?", scID).Find(&services).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Total())
	}
	return int64(len(services)), total, nil
}

// UnpaidBills lists bills with paid = false.
func (q *Queries) UnpaidBills(ctx context.Context) ([]BillSummary, error) {
	return q.bills(ctx, true)
}

// AllBills lists every bill.
func (q *Queries) AllBills(ctx context.Context) ([]BillSummary, error) {
	return q.bills(ctx, false)
}

func (q *Queries) bills(ctx context.Context, unpaidOnly bool) ([]BillSummary, error) {
	type row struct {
		ID          int64  `gorm:"column:id"`
		Year        int    `gorm:"column:year"`
		LastName    string `gorm:"column:lastName"`
		Institution string `gorm:"column:institution"`
		Keyword     string `gorm:"column:keyword"`
		ComplexID   int64  `gorm:"column:serviceComplexId"`
	}
	stmt := `SELECT bill.id, bill.year, customer.lastName, customer.institution, bill.keyword, bill.serviceComplexId
		 FROM customer, bill, serviceComplex
		 WHERE bill.serviceComplexId = serviceComplex.id
		   AND customer.id = serviceComplex.customerId`
	if unpaidOnly {
		stmt += ` AND bill.paid = FALSE`
	}
	stmt += ` ORDER BY bill.year, bill.id`

	var rows []row
	if err := q.db.WithContext(ctx).Raw(stmt).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]BillSummary, 0, len(rows))
	for _, r := range rows {
		_, total, err := q.complexTotal(ctx, r.ComplexID)
		if err != nil {
			return nil, err
		}
		c := domain.Customer{LastName: r.LastName, Institution: r.Institution}
		summaries = append(summaries, BillSummary{
			NumberingID:         r.ID,
			Year:                r.Year,
			CustomerDisplayName: c.DisplayName(),
			Keyword:             r.Keyword,
			Total:               total,
		})
	}
	return summaries, nil
}

// CustomersWithBills lists customers owning at least one billed complex.
func (q *Queries) CustomersWithBills(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := q.db.WithContext(ctx).Raw(
		`SELECT * FROM customer
		 WHERE id IN (SELECT customerId FROM serviceComplex
		              WHERE id IN (SELECT serviceComplexId FROM bill))
		 ORDER BY id`,
	).Scan(&customers).Error
	return customers, err
}

// BillOverview returns one row per billed service for the overview export.
//
// The default date filter compares day, month and year independently
// against the bounds, exactly as the overview has always worked. That is
// not a chronological range: day=5/month=12 fails a bound of day 1..31,
// month 1..11, but day=5/month=6 also fails a start day of 20. Callers
// wanting a real range set Calendar on the request.
func (q *Queries) BillOverview(ctx context.Context, req OverviewRequest) ([]OverviewRow, error) {
	type row struct {
		FirstName       string          `gorm:"column:firstName"`
		LastName        string          `gorm:"column:lastName"`
		Institution     string          `gorm:"column:institution"`
		BillID          int64           `gorm:"column:billId"`
		Keyword         string          `gorm:"column:keyword"`
		Day             int             `gorm:"column:day"`
		Month           int             `gorm:"column:month"`
		Year            int             `gorm:"column:year"`
		Price           decimal.Decimal `gorm:"column:price"`
		AdditionalPrice decimal.Decimal `gorm:"column:additionalPrice"`
		Valid           bool            `gorm:"column:valid"`
		Paid            bool            `gorm:"column:paid"`
	}
	var rows []row
	err := q.db.WithContext(ctx).Raw(
		`SELECT customer.firstName, customer.lastName, customer.institution,
		        bill.id AS billId, bill.keyword, bill.day, bill.month, bill.year,
		        service.price, service.additionalPrice, bill.valid, bill.paid
		 FROM customer, bill, serviceComplex, service
		 WHERE bill.serviceComplexId = serviceComplex.id
		   AND serviceComplex.customerId = customer.id
		   AND service.serviceComplexId = serviceComplex.id
		 ORDER BY customer.id, serviceComplex.id`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]OverviewRow, 0, len(rows))
	for _, r := range rows {
		o := OverviewRow{
			FirstName:       r.FirstName,
			LastName:        r.LastName,
			Institution:     r.Institution,
			BillID:          r.BillID,
			Keyword:         r.Keyword,
			Date:            domain.Date{Day: r.Day, Month: r.Month, Year: r.Year},
			Price:           r.Price,
			AdditionalPrice: r.AdditionalPrice,
			Valid:           r.Valid,
			Paid:            r.Paid,
		}
		if req.CustomerFilter != AllCustomers && o.DisplayName() != req.CustomerFilter {
			continue
		}
		if !dateInRange(o.Date, req.Start, req.End, req.Calendar) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func dateInRange(d, start, end domain.Date, calendar bool) bool {
	if calendar {
		return !before(d, start) && !before(end, d)
	}
	return start.Day <= d.Day && d.Day <= end.Day &&
		start.Month <= d.Month && d.Month <= end.Month &&
		start.Year <= d.Year && d.Year <= end.Year
}

// before compares dates chronologically, used by the calendar mode only.
func before(a, b domain.Date) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Month != b.Month {
		return a.Month < b.Month
	}
	return a.Day < b.Day
}
