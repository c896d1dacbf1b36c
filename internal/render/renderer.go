package render

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/query"
)

// Renderer produces the exported PDF documents. It only consumes data it
// is handed; a failed render never touches any store.
type Renderer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Renderer {
	return &Renderer{log: log.Named("render")}
}

// RenderInvoice writes a single bill as a paginated PDF to path.
func (r *Renderer) RenderInvoice(data domain.BillRenderData, path string) error {
	doc := LayoutInvoice(data)
	out, err := build(doc)
	if err != nil {
		return fmt.Errorf("render invoice %s: %w", data.Bill.Number(), err)
	}
	if err := out.Save(path); err != nil {
		return fmt.Errorf("save invoice %s: %w", data.Bill.Number(), err)
	}
	r.log.Info("invoice rendered",
		zap.String("number", data.Bill.Number()),
		zap.Int("pages", len(doc.Pages)),
		zap.String("path", path),
	)
	return nil
}

// RenderOverview writes the invoice overview for the given rows and date
// range to path.
func (r *Renderer) RenderOverview(rows []query.OverviewRow, start, end domain.Date, provider domain.Provider, path string) error {
	doc := LayoutOverview(rows, start, end, provider)
	out, err := build(doc)
	if err != nil {
		return fmt.Errorf("render overview: %w", err)
	}
	if err := out.Save(path); err != nil {
		return fmt.Errorf("save overview: %w", err)
	}
	r.log.Info("overview rendered",
		zap.Int("rows", len(rows)),
		zap.Int("pages", len(doc.Pages)),
		zap.String("path", path),
	)
	return nil
}
