package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) complexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complex",
		Short: "Manage service complexes (open bundles of billable work)",
	}
	cmd.AddCommand(
		c.complexAddCmd(),
		c.complexListCmd(),
		c.complexReassignCmd(),
		c.complexDeleteCmd(),
	)
	return cmd
}

func (c *CLI) complexAddCmd() *cobra.Command {
	var customerID int64
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a service complex for a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.Ledger.CreateServiceComplex(cmd.Context(), customerID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "service complex %d created\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&customerID, "customer", 0, "owning customer id")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func (c *CLI) complexListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open (not yet billed) service complexes with totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			summaries, err := s.Queries.OpenServiceComplexes(cmd.Context())
			if err != nil {
				return err
			}
			for _, sum := range summaries {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d services\t%s\n",
					sum.ID, sum.CustomerDisplayName, sum.ServiceCount, sum.Total.StringFixed(2))
			}
			return nil
		},
	}
}

func (c *CLI) complexReassignCmd() *cobra.Command {
	var scID, customerID int64
	cmd := &cobra.Command{
		Use:   "reassign",
		Short: "Move a service complex to another customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Ledger.ReassignServiceComplex(cmd.Context(), scID, customerID)
		},
	}
	cmd.Flags().Int64Var(&scID, "id", 0, "service complex id")
	cmd.Flags().Int64Var(&customerID, "customer", 0, "new owning customer id")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func (c *CLI) complexDeleteCmd() *cobra.Command {
	var scID int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a service complex and all its services",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Ledger.DeleteServiceComplex(cmd.Context(), scID)
		},
	}
	cmd.Flags().Int64Var(&scID, "id", 0, "service complex id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
