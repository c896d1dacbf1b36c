package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const (
	pageMargin  = 5.0   // mm
	a4HeightMM  = 297.0
	a4WidthPtRL = 595.28 // full page width in points
)

// scale maps the layout's point coordinates onto the usable page height.
func scale() float64 {
	return (a4HeightMM - 2*pageMargin) / pageHeightPt
}

func widthScale() float64 {
	return (210.0 - 2*pageMargin) / a4WidthPtRL
}

func textProps(style Style, size float64, leftPt float64, al align.Type) props.Text {
	p := props.Text{Size: size, Align: al}
	switch style {
	case StyleBold:
		p.Style = fontstyle.Bold
	case StyleSecondary:
		p.Family = fontfamily.Helvetica
	}
	if al == align.Left && leftPt > 0 {
		left := leftPt*widthScale() - pageMargin
		if left > 0 {
			p.Left = left
		}
	}
	return p
}

// colIndex maps an x position onto the 12-column grid.
func colIndex(x float64) int {
	idx := int(x / pageWidthPt * 12)
	if idx < 1 {
		idx = 1
	}
	if idx > 12 {
		idx = 12
	}
	return idx
}

// lineRow projects one layout line onto a maroto row.
func lineRow(l Line, height float64) core.Row {
	switch len(l.Cells) {
	case 2:
		left, right := l.Cells[0], l.Cells[1]
		split := colIndex(right.X)
		return row.New(height).Add(
			col.New(split).Add(
				text.New(left.Text, textProps(l.Style, l.Size, left.X, align.Left)),
				text.New(right.Text, textProps(l.Style, l.Size, 0, align.Right)),
			),
			col.New(12-split),
		)
	case 4:
		c := l.Cells
		return row.New(height).Add(
			text.NewCol(3, c[0].Text, textProps(l.Style, l.Size, c[0].X, align.Left)),
			text.NewCol(4, c[1].Text, textProps(l.Style, l.Size, 0, align.Left)),
			text.NewCol(3, c[2].Text, textProps(l.Style, l.Size, 0, align.Left)),
			text.NewCol(2, c[3].Text, textProps(l.Style, l.Size, 0, align.Right)),
		)
	default:
		c := l.Cells[0]
		if c.Right {
			split := colIndex(c.X)
			return row.New(height).Add(
				text.NewCol(split, c.Text, textProps(l.Style, l.Size, 0, align.Right)),
				col.New(12-split),
			)
		}
		return row.New(height).Add(
			text.NewCol(12, c.Text, textProps(l.Style, l.Size, c.X, align.Left)),
		)
	}
}

// pageRows converts a page layout into top-down rows whose heights
// telescope from the page top to the footer rule, so the explicit
// pagination is never second-guessed by the PDF engine.
func pageRows(p PageLayout) []core.Row {
	s := scale()
	rows := make([]core.Row, 0, len(p.Lines)+3)

	topGap := pageHeightPt
	if len(p.Lines) > 0 {
		topGap = pageHeightPt - p.Lines[0].Y
	}
	if p.Barcode != "" {
		rows = append(rows, row.New(topGap*s).Add(
			code.NewBarCol(4, p.Barcode, props.Barcode{
				Percent: 90,
				Top:     (pageHeightPt - 805.0) * s,
			}),
			col.New(8),
		))
	} else {
		rows = append(rows, row.New(topGap*s).Add(col.New(12)))
	}

	for i, l := range p.Lines {
		bottom := footerRuleY
		if i+1 < len(p.Lines) {
			bottom = p.Lines[i+1].Y
		}
		h := (l.Y - bottom) * s
		if h < 1 {
			h = 1
		}
		rows = append(rows, lineRow(l, h))
	}

	rows = append(rows, footerRows(p.Footer)...)
	return rows
}

// footerRows renders the repeating bank/contact block at the page bottom.
func footerRows(f FooterBlock) []core.Row {
	s := scale()
	bank := col.New(5).Add(
		text.New("Bankverbindung", props.Text{Style: fontstyle.Bold, Size: 12, Left: 10 * widthScale()}),
		text.New("IBAN: "+f.IBAN, footerDetail(35*s)),
		text.New("BIC: "+f.BIC, footerDetail(45*s)),
		text.New("St-IdNr: "+f.TaxID, footerDetail(55*s)),
	)
	contact := col.New(5).Add(
		text.New("Kontakt", props.Text{Style: fontstyle.Bold, Size: 12}),
		text.New("Tel.: "+f.Telephone, footerDetail(35*s)),
		text.New("Mail : "+f.Email, footerDetail(45*s)),
	)
	if f.Website != "" {
		contact.Add(text.New("Web: "+f.Website, footerDetail(55*s)))
	}
	qr := col.New(2)
	if f.Website != "" {
		qr.Add(code.NewQr(f.Website, props.Rect{Percent: 90}))
	}
	return []core.Row{
		row.New(1).Add(line.NewCol(12)),
		row.New(footerRuleY*s - 1).Add(bank, contact, qr),
	}
}

func footerDetail(top float64) props.Text {
	return props.Text{Size: 8, Family: fontfamily.Helvetica, Top: top}
}

// build assembles the maroto document from the computed layout.
func build(doc Document) (core.Document, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(pageMargin).
		WithTopMargin(pageMargin).
		WithRightMargin(pageMargin).
		WithDefaultFont(&props.Font{Family: fontfamily.Arial, Size: 11}).
		Build()

	m := maroto.New(cfg)
	for _, p := range doc.Pages {
		m.AddPages(page.New().Add(pageRows(p)...))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate document: %w", err)
	}
	return out, nil
}
