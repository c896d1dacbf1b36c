package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

func (c *CLI) providerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage the active tenant's provider profile",
	}
	cmd.AddCommand(c.providerCreateCmd(), c.providerShowCmd())
	return cmd
}

func (c *CLI) providerCreateCmd() *cobra.Command {
	var f domain.ProviderFields
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a provider profile and make it the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			id, err := s.Ledger.CreateProvider(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provider %d created and activated\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.TaxID, "tax-id", "", "tax id (St-IdNr)")
	cmd.Flags().StringVar(&f.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.LastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&f.Gender, "gender", domain.GenderNeutral, "gender code (0 female, 1 male, 2 neutral)")
	cmd.Flags().StringVar(&f.Street, "street", "", "street")
	cmd.Flags().StringVar(&f.Number, "number", "", "house number")
	cmd.Flags().StringVar(&f.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&f.Place, "place", "", "place")
	cmd.Flags().StringVar(&f.Telephone, "telephone", "", "telephone")
	cmd.Flags().StringVar(&f.Email, "email", "", "email")
	cmd.Flags().StringVar(&f.IBAN, "iban", "", "bank IBAN")
	cmd.Flags().StringVar(&f.BIC, "bic", "", "bank BIC")
	cmd.Flags().StringVar(&f.Website, "website", "", "website (rendered as QR code on invoices)")
	_ = cmd.MarkFlagRequired("tax-id")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("iban")
	_ = cmd.MarkFlagRequired("bic")
	return cmd
}

func (c *CLI) providerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active provider profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openActive(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()
			p, err := s.Ledger.ActiveProvider(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s %s\t%s %s\t%s %s\tIBAN %s\n",
				p.ID, p.FirstName, p.LastName, p.Street, p.Number, p.PostalCode, p.Place, p.IBAN)
			return nil
		},
	}
}
