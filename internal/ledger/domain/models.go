package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Gender codes as stored. They drive salutation and greeting text on
// rendered invoices.
const (
	GenderFemale  = 0
	GenderMale    = 1
	GenderNeutral = 2
)

// SchemaVersion is written into VERSION_INFO when a store is first created.
var SchemaVersion = VersionInfo{Major: 0, Minor: 1, Patch: 0, Additional: "a1"}

// RequiredTables are the tables an importable tenant store must contain.
var RequiredTables = []string{
	"customer",
	"serviceComplex",
	"service",
	"bill",
	"provider",
	"VERSION_INFO",
}

// Date is a calendar date kept as three independent integers. The fields
// are never validated against a real calendar.
type Date struct {
	Day   int `gorm:"column:day"`
	Month int `gorm:"column:month"`
	Year  int `gorm:"column:year"`
}

func (d Date) String() string {
	return fmt.Sprintf("%d.%d.%d", d.Day, d.Month, d.Year)
}

type Customer struct {
	ID          int64  `gorm:"column:id;primaryKey" json:"id"`
	FirstName   string `gorm:"column:firstName" json:"first_name"`
	LastName    string `gorm:"column:lastName" json:"last_name"`
	Gender      int    `gorm:"column:gender" json:"gender"`
	Institution string `gorm:"column:institution" json:"institution"`
	Street      string `gorm:"column:street" json:"street"`
	Number      string `gorm:"column:number" json:"number"`
	PostalCode  string `gorm:"column:postalCode" json:"postal_code"`
	Place       string `gorm:"column:place" json:"place"`
}

func (Customer) TableName() string { return "customer" }

// DisplayName prefers the institution, falls back to the last name, and
// joins both as "institution:lastName" when both are set.
func (c Customer) DisplayName() string {
	switch {
	case c.Institution != "" && c.LastName != "":
		return c.Institution + ":" + c.LastName
	case c.LastName != "":
		return c.LastName
	default:
		return c.Institution
	}
}

type ServiceComplex struct {
	ID         int64 `gorm:"column:id;primaryKey" json:"id"`
	CustomerID int64 `gorm:"column:customerId" json:"customer_id"`
}

func (ServiceComplex) TableName() string { return "serviceComplex" }

type Service struct {
	ID               int64           `gorm:"column:id;primaryKey" json:"id"`
	ServiceComplexID int64           `gorm:"column:serviceComplexId" json:"service_complex_id"`
	Description      string          `gorm:"column:description" json:"description"`
	Price            decimal.Decimal `gorm:"column:price;type:decimal(18,4)" json:"price"`
	AdditionalPrice  decimal.Decimal `gorm:"column:additionalPrice;type:decimal(18,4)" json:"additional_price"`
	Date             Date            `gorm:"embedded" json:"date"`
}

func (Service) TableName() string { return "service" }

func (s Service) Total() decimal.Decimal {
	return s.Price.Add(s.AdditionalPrice)
}

// Bill is composite-keyed by (id, year): the numbering id is only unique
// within its year. Identity and monetary content are immutable after
// creation; only Valid and Paid may change.
type Bill struct {
	ID                 int64  `gorm:"column:id" json:"id"`
	ServiceComplexID   int64  `gorm:"column:serviceComplexId" json:"service_complex_id"`
	ProviderID         int64  `gorm:"column:providerId" json:"provider_id"`
	Date               Date   `gorm:"embedded" json:"date"`
	Keyword            string `gorm:"column:keyword" json:"keyword"`
	Comment            string `gorm:"column:comment" json:"comment"`
	SmallBusinessOwner bool   `gorm:"column:smallBusinessOwner" json:"small_business_owner"`
	Valid              bool   `gorm:"column:valid" json:"valid"`
	Paid               bool   `gorm:"column:paid" json:"paid"`
}

func (Bill) TableName() string { return "bill" }

// Number renders the human-facing invoice number, e.g. "2024-003".
func (b Bill) Number() string {
	return fmt.Sprintf("%d-%03d", b.Date.Year, b.ID)
}

type Provider struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id"`
	TaxID      string `gorm:"column:taxId" json:"tax_id"`
	FirstName  string `gorm:"column:firstName" json:"first_name"`
	LastName   string `gorm:"column:lastName" json:"last_name"`
	Gender     int    `gorm:"column:gender" json:"gender"`
	Street     string `gorm:"column:street" json:"street"`
	Number     string `gorm:"column:number" json:"number"`
	PostalCode string `gorm:"column:postalCode" json:"postal_code"`
	Place      string `gorm:"column:place" json:"place"`
	Telephone  string `gorm:"column:telephone" json:"telephone"`
	Email      string `gorm:"column:email" json:"email"`
	IBAN       string `gorm:"column:IBAN" json:"iban"`
	BIC        string `gorm:"column:BIC" json:"bic"`
	Website    string `gorm:"column:WEBSITE" json:"website"`
	Active     bool   `gorm:"column:ACTIVE" json:"active"`
}

func (Provider) TableName() string { return "provider" }

type VersionInfo struct {
	Major      int    `gorm:"column:major" json:"major"`
	Minor      int    `gorm:"column:minor" json:"minor"`
	Patch      int    `gorm:"column:patch" json:"patch"`
	Additional string `gorm:"column:additional" json:"additional"`
}

func (VersionInfo) TableName() string { return "VERSION_INFO" }

func (v VersionInfo) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Additional != "" {
		s += "-" + v.Additional
	}
	return s
}
