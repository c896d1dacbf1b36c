// Package render turns bill data into paginated PDF documents. The layout
// pass is pure and deterministic: it walks a vertical cursor down each page
// and decides, per line, whether the footer block must be emitted and a new
// page started. The drawing pass projects the computed layout onto maroto.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/query"
)

// Style roles for rendered text.
type Style int

const (
	StyleRegular Style = iota
	StyleBold
	StyleSecondary
)

// Page geometry in PDF points, as the documents have always been laid out.
const (
	bodyTop           = 750.0 // cursor start on the first page
	overflowReset     = 700.0 // cursor start on overflow pages
	overflowThreshold = 250.0 // below this, a service line forces the footer and a page break
	footerRuleY       = 80.0  // top of the reserved footer block
	pageHeightPt      = 841.89
	pageWidthPt       = 545.27
)

// Cell is one text fragment of a line. Right cells are right-aligned at X.
type Cell struct {
	Text  string
	X     float64
	Right bool
}

// Line is one laid-out text line with the cursor position it was placed at.
type Line struct {
	Cells []Cell
	Style Style
	Size  float64
	Y     float64
}

// FooterBlock is the bank/contact panel at the bottom of every page. A
// non-empty Website additionally renders as a QR code.
type FooterBlock struct {
	IBAN      string
	BIC       string
	TaxID     string
	Telephone string
	Email     string
	Website   string
}

// PageLayout is one finished page. Every page carries the footer block;
// the first page of an invoice additionally carries the barcode content.
type PageLayout struct {
	Barcode string
	Lines   []Line
	Footer  FooterBlock
}

type Document struct {
	Pages []PageLayout
}

// layout drives the cursor over pages.
type layout struct {
	doc    Document
	page   PageLayout
	footer FooterBlock
	y      float64
}

func newLayout(footer FooterBlock) *layout {
	return &layout{
		footer: footer,
		page:   PageLayout{Footer: footer},
		y:      bodyTop,
	}
}

// add places a line at the current cursor and advances by gap.
func (l *layout) add(gap float64, style Style, size float64, cells ...Cell) {
	l.page.Lines = append(l.page.Lines, Line{Cells: cells, Style: style, Size: size, Y: l.y})
	l.y -= gap
}

func (l *layout) text(gap float64, style Style, size float64, x float64, s string) {
	l.add(gap, style, size, Cell{Text: s, X: x})
}

// breakPage closes the current page with its footer and resets the cursor.
// Called only from the per-line overflow check.
func (l *layout) breakPage() {
	l.doc.Pages = append(l.doc.Pages, l.page)
	l.page = PageLayout{Footer: l.footer}
	l.y = overflowReset
}

// finish closes the final page. The footer is part of every page layout,
// so this is the unconditional final footer emission.
func (l *layout) finish() Document {
	l.doc.Pages = append(l.doc.Pages, l.page)
	return l.doc
}

func footerFor(p domain.Provider) FooterBlock {
	return FooterBlock{
		IBAN:      p.IBAN,
		BIC:       p.BIC,
		TaxID:     p.TaxID,
		Telephone: p.Telephone,
		Email:     p.Email,
		Website:   p.Website,
	}
}

// joinFields joins the non-empty fields with single spaces.
func joinFields(fields ...string) string {
	parts := fields[:0:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// LayoutInvoice lays out a single bill. The body cursor starts below the
// greeting; each service line checks remaining space first, so the footer
// may be emitted mid-list. After the list, the sum, comment and flag
// banners are placed without further checks, and the final page always
// closes with one more footer.
func LayoutInvoice(data domain.BillRenderData) Document {
	bill, provider, customer := data.Bill, data.Provider, data.Customer
	l := newLayout(footerFor(provider))
	l.page.Barcode = bill.Number()

	// provider address line
	l.text(20, StyleRegular, 8, 50, strings.Join([]string{
		joinFields(provider.FirstName, provider.LastName),
		joinFields(provider.Street, provider.Number),
		joinFields(provider.PostalCode, provider.Place),
	}, " · "))

	layoutCustomerBlock(l, customer)

	l.text(20, StyleBold, 14, 50, bill.Keyword)
	l.text(40, StyleRegular, 10, 50, fmt.Sprintf("Rechnungs-Nr.: %s", bill.Number()))

	l.text(20, StyleRegular, 12, 50, greeting(customer))
	l.text(30, StyleRegular, 12, 50, "ich berechne folgende Leistungen:")

	total := decimal.Zero
	for _, s := range data.Services {
		if l.y <= overflowThreshold {
			l.breakPage()
		}
		l.add(18, StyleRegular, 11,
			Cell{Text: joinFields(s.Description, s.Date.String()), X: 60},
			Cell{Text: FormatAmount(s.Price), X: 400, Right: true},
		)
		if !s.AdditionalPrice.IsZero() {
			l.add(18, StyleRegular, 11,
				Cell{Text: "+ " + FormatAmount(s.AdditionalPrice), X: 400, Right: true},
			)
		}
		total = total.Add(s.Total())
	}

	l.add(40, StyleBold, 12,
		Cell{Text: "Summe:", X: 60},
		Cell{Text: FormatAmount(total), X: 400, Right: true},
	)
	l.text(40, StyleRegular, 12, 50, bill.Comment)
	if bill.SmallBusinessOwner {
		l.text(40, StyleRegular, 10, 50,
			"Hinweis: Als Kleinunternehmer im Sinne von § 19 Abs. 1 UStG wird Umsatzsteuer nicht berechnet.")
	}
	if !bill.Valid {
		l.text(20, StyleBold, 14, 50, "Diese Rechnung ist ungültig.")
	}
	if bill.Paid {
		l.text(20, StyleBold, 14, 50, "Diese Rechnung ist bereits bezahlt.")
	}
	return l.finish()
}

// layoutCustomerBlock assembles the address block from whichever of
// institution, last name and gender are present.
func layoutCustomerBlock(l *layout, c domain.Customer) {
	switch {
	case c.LastName == "":
		if c.Institution != "" {
			l.text(20, StyleRegular, 12, 50, c.Institution)
		}
	case c.FirstName == "":
		if c.Institution != "" {
			l.text(20, StyleRegular, 12, 50, c.Institution)
		}
		l.text(20, StyleRegular, 12, 50, joinFields(salutation(c.Gender), c.LastName))
	default:
		if c.Institution != "" {
			l.text(20, StyleRegular, 12, 50, c.Institution)
		}
		l.text(20, StyleRegular, 12, 50, joinFields(c.FirstName, c.LastName))
	}
	l.text(20, StyleRegular, 12, 50, joinFields(c.Street, c.Number))
	l.text(80, StyleRegular, 12, 50, joinFields(c.PostalCode, c.Place))
}

func salutation(gender int) string {
	switch gender {
	case domain.GenderFemale:
		return "Frau"
	case domain.GenderMale:
		return "Herr"
	default:
		return ""
	}
}

func greeting(c domain.Customer) string {
	g := "Sehr geehrte"
	switch {
	case c.LastName == "":
		g += " Damen und Herren"
	case c.Gender == domain.GenderFemale:
		g += " Frau " + c.LastName
	case c.Gender == domain.GenderMale:
		g += "r Herr " + c.LastName
	case c.Gender == domain.GenderNeutral:
		g += ":r " + joinFields(c.FirstName, c.LastName)
	}
	return g + ","
}

// LayoutOverview lays out the invoice overview: one line per billed
// service row, the same per-line overflow rule, a grand total and the
// final footer.
func LayoutOverview(rows []query.OverviewRow, start, end domain.Date, provider domain.Provider) Document {
	l := newLayout(footerFor(provider))

	l.text(50, StyleBold, 14, 50, "Rechnungsübersicht")
	l.text(50, StyleRegular, 12, 50, fmt.Sprintf("Zeitraum: %s - %s", start, end))

	total := decimal.Zero
	for _, r := range rows {
		if l.y <= overflowThreshold {
			l.breakPage()
		}
		amount := r.Price.Add(r.AdditionalPrice)
		l.add(18, StyleRegular, 8,
			Cell{Text: fmt.Sprintf("R.-Nr.: %d-%03d", r.Date.Year, r.BillID), X: 50},
			Cell{Text: r.Keyword, X: 120},
			Cell{Text: joinFields(r.Institution, r.FirstName, r.LastName), X: 300},
			Cell{Text: FormatAmount(amount), X: 550, Right: true},
		)
		total = total.Add(amount)
	}

	l.add(40, StyleBold, 12,
		Cell{Text: "Summe:", X: 60},
		Cell{Text: FormatAmount(total), X: 550, Right: true},
	)
	return l.finish()
}
