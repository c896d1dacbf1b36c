package render

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/query"
)

func amount(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testProvider() domain.Provider {
	return domain.Provider{
		ID:        1,
		TaxID:     "12 345 / 67890",
		FirstName: "Erika",
		LastName:  "Muster",
		Street:    "Hauptstraße",
		Number:    "1",
		Telephone: "0123 456789",
		Email:     "erika@example.org",
		IBAN:      "DE02120300000000202051",
		BIC:       "BYLADEM1001",
		Website:   "https://example.org",
		Active:    true,
	}
}

func invoiceData(serviceCount int) domain.BillRenderData {
	services := make([]domain.Service, 0, serviceCount)
	for i := 0; i < serviceCount; i++ {
		services = append(services, domain.Service{
			ID:          int64(i),
			Description: fmt.Sprintf("Leistung %d", i+1),
			Price:       amount("10.00"),
			Date:        domain.Date{Day: i%28 + 1, Month: 1, Year: 2024},
		})
	}
	return domain.BillRenderData{
		Bill: domain.Bill{
			ID:      0,
			Date:    domain.Date{Day: 15, Month: 1, Year: 2024},
			Keyword: "Rechnung Januar",
			Valid:   true,
		},
		Provider: testProvider(),
		Customer: domain.Customer{
			FirstName:  "Max",
			LastName:   "Beispiel",
			Gender:     domain.GenderMale,
			Street:     "Nebenweg",
			Number:     "2",
			PostalCode: "12345",
			Place:      "Berlin",
		},
		Services: services,
	}
}

func sumLine(t *testing.T, doc Document) Line {
	t.Helper()
	for _, p := range doc.Pages {
		for _, line := range p.Lines {
			if len(line.Cells) == 2 && line.Cells[0].Text == "Summe:" {
				return line
			}
		}
	}
	t.Fatal("no sum line in document")
	return Line{}
}

func TestLayoutInvoiceSinglePage(t *testing.T) {
	doc := LayoutInvoice(invoiceData(5))

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, "2024-000", page.Barcode)
	assert.Equal(t, "DE02120300000000202051", page.Footer.IBAN)

	// lines descend monotonically on a page
	for i := 1; i < len(page.Lines); i++ {
		assert.Less(t, page.Lines[i].Y, page.Lines[i-1].Y)
	}

	sum := sumLine(t, doc)
	assert.Equal(t, "50,00 €", sum.Cells[1].Text)
	assert.True(t, sum.Cells[1].Right)
	assert.Equal(t, StyleBold, sum.Style)
}

func TestLayoutInvoiceTotals(t *testing.T) {
	data := invoiceData(0)
	data.Services = []domain.Service{
		{Description: "Beratung", Price: amount("100.00"), Date: domain.Date{Day: 1, Month: 1, Year: 2024}},
		{Description: "Anfahrt", Price: amount("20.00"), AdditionalPrice: amount("5.00"), Date: domain.Date{Day: 2, Month: 1, Year: 2024}},
	}

	doc := LayoutInvoice(data)
	assert.Equal(t, "125,00 €", sumLine(t, doc).Cells[1].Text)

	// the additional price shows as its own line under the service
	var found bool
	for _, line := range doc.Pages[0].Lines {
		if len(line.Cells) == 1 && line.Cells[0].Text == "+ 5,00 €" {
			found = true
			assert.True(t, line.Cells[0].Right)
		}
	}
	assert.True(t, found)
}

func TestLayoutInvoiceOverflow(t *testing.T) {
	doc := LayoutInvoice(invoiceData(20))

	require.Len(t, doc.Pages, 2)
	first, second := doc.Pages[0], doc.Pages[1]

	// only the first page carries the barcode, every page the footer
	assert.Equal(t, "2024-000", first.Barcode)
	assert.Empty(t, second.Barcode)
	for _, p := range doc.Pages {
		assert.Equal(t, "BYLADEM1001", p.Footer.BIC)
	}

	// the continuation starts at the overflow cursor, above the threshold
	require.NotEmpty(t, second.Lines)
	assert.Equal(t, overflowReset, second.Lines[0].Y)
	for _, line := range first.Lines {
		assert.Greater(t, line.Y, overflowThreshold)
	}
}

func TestLayoutInvoiceDeterministic(t *testing.T) {
	a := LayoutInvoice(invoiceData(20))
	b := LayoutInvoice(invoiceData(20))
	assert.Equal(t, a, b)
}

func TestLayoutInvoiceBanners(t *testing.T) {
	data := invoiceData(1)
	data.Bill.Valid = false
	data.Bill.Paid = true
	data.Bill.SmallBusinessOwner = true

	var texts []string
	doc := LayoutInvoice(data)
	for _, line := range doc.Pages[0].Lines {
		for _, c := range line.Cells {
			texts = append(texts, c.Text)
		}
	}
	assert.Contains(t, texts, "Diese Rechnung ist ungültig.")
	assert.Contains(t, texts, "Diese Rechnung ist bereits bezahlt.")
	assert.Contains(t, texts,
		"Hinweis: Als Kleinunternehmer im Sinne von § 19 Abs. 1 UStG wird Umsatzsteuer nicht berechnet.")
}

func TestGreeting(t *testing.T) {
	cases := []struct {
		customer domain.Customer
		want     string
	}{
		{domain.Customer{Institution: "Acme"}, "Sehr geehrte Damen und Herren,"},
		{domain.Customer{LastName: "Muster", Gender: domain.GenderFemale}, "Sehr geehrte Frau Muster,"},
		{domain.Customer{LastName: "Muster", Gender: domain.GenderMale}, "Sehr geehrter Herr Muster,"},
		{domain.Customer{FirstName: "Kim", LastName: "Muster", Gender: domain.GenderNeutral}, "Sehr geehrte:r Kim Muster,"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, greeting(tc.customer))
	}
}

func TestSalutation(t *testing.T) {
	assert.Equal(t, "Frau", salutation(domain.GenderFemale))
	assert.Equal(t, "Herr", salutation(domain.GenderMale))
	assert.Empty(t, salutation(domain.GenderNeutral))
}

func TestLayoutOverview(t *testing.T) {
	rows := []query.OverviewRow{
		{
			LastName: "Muster",
			BillID:   0,
			Keyword:  "Rechnung Januar",
			Date:     domain.Date{Day: 5, Month: 1, Year: 2024},
			Price:    amount("100.00"),
		},
		{
			Institution:     "Acme",
			BillID:          1,
			Keyword:         "Rechnung Februar",
			Date:            domain.Date{Day: 5, Month: 2, Year: 2024},
			Price:           amount("20.00"),
			AdditionalPrice: amount("5.00"),
		},
	}
	start := domain.Date{Day: 1, Month: 1, Year: 2024}
	end := domain.Date{Day: 31, Month: 12, Year: 2024}

	doc := LayoutOverview(rows, start, end, testProvider())
	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]

	assert.Equal(t, "Rechnungsübersicht", page.Lines[0].Cells[0].Text)
	assert.Equal(t, "Zeitraum: 1.1.2024 - 31.12.2024", page.Lines[1].Cells[0].Text)
	assert.Empty(t, page.Barcode)

	assert.Equal(t, "R.-Nr.: 2024-000", page.Lines[2].Cells[0].Text)
	assert.Equal(t, "R.-Nr.: 2024-001", page.Lines[3].Cells[0].Text)
	assert.Equal(t, "125,00 €", sumLine(t, doc).Cells[1].Text)
}

func TestLayoutOverviewOverflow(t *testing.T) {
	var rows []query.OverviewRow
	for i := 0; i < 60; i++ {
		rows = append(rows, query.OverviewRow{
			LastName: "Muster",
			BillID:   int64(i),
			Keyword:  "Rechnung",
			Date:     domain.Date{Day: 1, Month: 1, Year: 2024},
			Price:    amount("1.00"),
		})
	}
	doc := LayoutOverview(rows,
		domain.Date{Day: 1, Month: 1, Year: 2024},
		domain.Date{Day: 31, Month: 12, Year: 2024},
		testProvider())

	assert.Greater(t, len(doc.Pages), 1)
	for _, p := range doc.Pages {
		assert.Equal(t, "12 345 / 67890", p.Footer.TaxID)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0,00 €", FormatAmount(decimal.Zero))
	assert.Equal(t, "125,00 €", FormatAmount(amount("125")))
	assert.Equal(t, "17,50 €", FormatAmount(amount("17.5")))
	assert.Equal(t, "1234,57 €", FormatAmount(amount("1234.567")))
}
