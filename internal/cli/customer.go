package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

func (c *CLI) customerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage the active tenant's customers",
	}
	cmd.AddCommand(c.customerAddCmd(), c.customerListCmd())
	return cmd
}

func (c *CLI) customerAddCmd() *cobra.Command {
	var f domain.CustomerFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.Ledger.CreateCustomer(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "customer %d created\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&f.Gender, "gender", domain.GenderNeutral, "gender code (0 female, 1 male, 2 neutral)")
	cmd.Flags().StringVar(&f.Institution, "institution", "", "institution name")
	cmd.Flags().StringVar(&f.Street, "street", "", "street")
	cmd.Flags().StringVar(&f.Number, "number", "", "house number")
	cmd.Flags().StringVar(&f.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&f.Place, "place", "", "place")
	return cmd
}

func (c *CLI) customerListCmd() *cobra.Command {
	var billed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			var customers []domain.Customer
			if billed {
				customers, err = s.Queries.CustomersWithBills(cmd.Context())
			} else {
				customers, err = s.Ledger.Customers(cmd.Context())
			}
			if err != nil {
				return err
			}
			for _, cu := range customers {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", cu.ID, cu.DisplayName())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&billed, "billed", false, "only customers owning at least one billed complex")
	return cmd
}
