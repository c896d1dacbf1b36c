package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallbiznis/faktura/internal/ledger/store"
	regdomain "github.com/smallbiznis/faktura/internal/registry/domain"
)

func (c *CLI) tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage providers (tenants) and their ledger stores",
	}
	cmd.AddCommand(
		c.tenantListCmd(),
		c.tenantCreateCmd(),
		c.tenantActivateCmd(),
		c.tenantDeleteCmd(),
		c.tenantImportCmd(),
	)
	return cmd
}

func (c *CLI) tenantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.registry.ListTenants(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				marker := " "
				if e.Active {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d\t%s\t%s\n", marker, e.ID, e.Keyword, e.Dir)
			}
			return nil
		},
	}
}

func (c *CLI) tenantCreateCmd() *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant with a fresh ledger store and activate it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.registry.NextTenantID(ctx)
			if err != nil {
				return err
			}
			dir := c.cfg.TenantStorePath(id)
			st, err := store.Open(dir)
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return err
			}
			created, err := c.registry.CreateTenant(ctx, keyword, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tenant %d created and activated (%s)\n", created, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "display keyword for the tenant")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}

func (c *CLI) tenantActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Make the given tenant the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tenant id %q", args[0])
			}
			return c.registry.ActivateTenant(cmd.Context(), id)
		},
	}
}

func (c *CLI) tenantDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a tenant from the registry (its store file is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tenant id %q", args[0])
			}
			return c.registry.DeleteTenant(cmd.Context(), id)
		},
	}
}

func (c *CLI) tenantImportCmd() *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Validate a foreign ledger store and register it as a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			if err := c.registry.ValidateImport(ctx, path); err != nil {
				if !errors.Is(err, regdomain.ErrVersionMismatch) {
					return err
				}
				// advisory only, the store stays usable
				c.log.Warn("importing store with mismatched schema version", zap.Error(err))
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %v\n", err)
			}
			id, err := c.registry.CreateTenant(ctx, keyword, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tenant %d imported and activated (%s)\n", id, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "display keyword for the tenant")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}
