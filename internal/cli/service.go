package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/render"
)

type serviceFlags struct {
	description string
	price       string
	additional  string
	date        string
}

func (f *serviceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "free-text description")
	cmd.Flags().StringVar(&f.price, "price", "0,00", "price (comma decimal)")
	cmd.Flags().StringVar(&f.additional, "additional", "0,00", "additional price (comma decimal)")
	cmd.Flags().StringVar(&f.date, "date", "", "service date as d.m.y")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("date")
}

func (f *serviceFlags) fields() (domain.ServiceFields, error) {
	price, err := parseAmount(f.price)
	if err != nil {
		return domain.ServiceFields{}, fmt.Errorf("invalid price %q", f.price)
	}
	additional, err := parseAmount(f.additional)
	if err != nil {
		return domain.ServiceFields{}, fmt.Errorf("invalid additional price %q", f.additional)
	}
	date, err := parseDate(f.date)
	if err != nil {
		return domain.ServiceFields{}, err
	}
	return domain.ServiceFields{
		Description:     f.description,
		Price:           price,
		AdditionalPrice: additional,
		Date:            date,
	}, nil
}

func (c *CLI) serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage services inside a service complex",
	}
	cmd.AddCommand(
		c.serviceAddCmd(),
		c.serviceUpdateCmd(),
		c.serviceDeleteCmd(),
		c.serviceListCmd(),
	)
	return cmd
}

func (c *CLI) serviceAddCmd() *cobra.Command {
	var scID int64
	var f serviceFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a service to a complex",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := f.fields()
			if err != nil {
				return err
			}
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.Ledger.CreateService(cmd.Context(), scID, fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "service %d created\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&scID, "complex", 0, "owning service complex id")
	_ = cmd.MarkFlagRequired("complex")
	f.register(cmd)
	return cmd
}

func (c *CLI) serviceUpdateCmd() *cobra.Command {
	var id int64
	var f serviceFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := f.fields()
			if err != nil {
				return err
			}
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Ledger.UpdateService(cmd.Context(), id, fields)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "service id")
	_ = cmd.MarkFlagRequired("id")
	f.register(cmd)
	return cmd
}

func (c *CLI) serviceDeleteCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			return s.Ledger.DeleteService(cmd.Context(), id)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "service id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (c *CLI) serviceListCmd() *cobra.Command {
	var scID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a complex's services ordered by date fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			services, err := s.Ledger.ServicesByComplex(cmd.Context(), scID)
			if err != nil {
				return err
			}
			for _, sv := range services {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n",
					sv.ID, sv.Description, sv.Date,
					render.FormatAmount(sv.Price), render.FormatAmount(sv.AdditionalPrice))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&scID, "complex", 0, "service complex id")
	_ = cmd.MarkFlagRequired("complex")
	return cmd
}
