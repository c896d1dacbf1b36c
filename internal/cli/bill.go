package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/query"
	"github.com/smallbiznis/faktura/internal/render"
)

func (c *CLI) billCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Create and inspect bills",
	}
	cmd.AddCommand(c.billCreateCmd(), c.billListCmd(), c.billFlagsCmd())
	return cmd
}

func (c *CLI) billCreateCmd() *cobra.Command {
	var (
		scID    int64
		date    string
		keyword string
		comment string
		sbo     bool
		invalid bool
		paid    bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Turn a service complex into an immutable bill",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(date)
			if err != nil {
				return err
			}
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			provider, err := s.Ledger.ActiveProvider(cmd.Context())
			if err != nil {
				return fmt.Errorf("no active provider profile; create one with 'faktura provider create': %w", err)
			}
			id, err := s.Ledger.CreateBill(cmd.Context(), domain.CreateBillRequest{
				ServiceComplexID:   scID,
				ProviderID:         provider.ID,
				Date:               d,
				Keyword:            keyword,
				Comment:            comment,
				SmallBusinessOwner: sbo,
				Valid:              !invalid,
				Paid:               paid,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bill %d-%03d created\n", d.Year, id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&scID, "complex", 0, "service complex to bill")
	cmd.Flags().StringVar(&date, "date", "", "bill date as d.m.y")
	cmd.Flags().StringVar(&keyword, "keyword", "", "invoice subject line")
	cmd.Flags().StringVar(&comment, "comment", "", "free-text comment")
	cmd.Flags().BoolVar(&sbo, "small-business", false, "suppress the VAT statement (§ 19 UStG)")
	cmd.Flags().BoolVar(&invalid, "invalid", false, "mark the bill invalid on creation")
	cmd.Flags().BoolVar(&paid, "paid", false, "mark the bill already paid")
	_ = cmd.MarkFlagRequired("complex")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}

func (c *CLI) billListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List unpaid bills (or all with --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			var bills []query.BillSummary
			if all {
				bills, err = s.Queries.AllBills(cmd.Context())
			} else {
				bills, err = s.Queries.UnpaidBills(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, b := range bills {
				fmt.Fprintf(cmd.OutOrStdout(), "%d-%03d\t%s\t%s\t%s\n",
					b.Year, b.NumberingID, b.CustomerDisplayName, b.Keyword,
					render.FormatAmount(b.Total))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include paid bills")
	return cmd
}

func (c *CLI) billFlagsCmd() *cobra.Command {
	var (
		id    int64
		year  int
		valid bool
		paid  bool
	)
	cmd := &cobra.Command{
		Use:   "flags",
		Short: "Set a bill's valid/paid flags (the only mutable fields)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Ledger.UpdateBillFlags(cmd.Context(), id, year, valid, paid)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "bill numbering id")
	cmd.Flags().IntVar(&year, "year", 0, "bill year")
	cmd.Flags().BoolVar(&valid, "valid", true, "valid flag")
	cmd.Flags().BoolVar(&paid, "paid", false, "paid flag")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}
