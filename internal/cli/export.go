package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/faktura/internal/ledger/query"
)

func (c *CLI) renderCmd() *cobra.Command {
	var (
		id   int64
		year int
		out  string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a bill as a PDF invoice",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			data, err := s.Ledger.BillRenderData(cmd.Context(), id, year)
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(c.cfg.OutputDir, fmt.Sprintf("invoice-%s.pdf", data.Bill.Number()))
			}
			if err := c.renderer.RenderInvoice(data, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "invoice %s written to %s\n", data.Bill.Number(), out)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "bill numbering id")
	cmd.Flags().IntVar(&year, "year", 0, "bill year")
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the configured output dir)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

func (c *CLI) overviewCmd() *cobra.Command {
	var (
		customer string
		from     string
		to       string
		calendar bool
		out      string
	)
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Render an invoice overview PDF for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(from)
			if err != nil {
				return err
			}
			end, err := parseDate(to)
			if err != nil {
				return err
			}
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			rows, err := s.Queries.BillOverview(cmd.Context(), query.OverviewRequest{
				CustomerFilter: customer,
				Start:          start,
				End:            end,
				Calendar:       calendar,
			})
			if err != nil {
				return err
			}
			provider, err := s.Ledger.ActiveProvider(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = filepath.Join(c.cfg.OutputDir,
					fmt.Sprintf("overview-%s-%s.pdf", start, end))
			}
			if err := c.renderer.RenderOverview(rows, start, end, provider, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "overview with %d rows written to %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&customer, "customer", query.AllCustomers, "customer display name, or * for all")
	cmd.Flags().StringVar(&from, "from", "", "range start as d.m.y")
	cmd.Flags().StringVar(&to, "to", "", "range end as d.m.y")
	cmd.Flags().BoolVar(&calendar, "calendar", false, "use a true chronological range instead of the per-field comparison")
	cmd.Flags().StringVar(&out, "out", "", "output path (defaults to the configured output dir)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
