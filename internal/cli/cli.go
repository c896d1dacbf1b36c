// Package cli is the thin input/output wrapper around the core operations:
// it coerces user input (comma-decimal amounts, d.m.y dates) and prints
// query projections. It carries no invariants of its own.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/faktura/internal/config"
	ledgerdomain "github.com/smallbiznis/faktura/internal/ledger/domain"
	"github.com/smallbiznis/faktura/internal/ledger/query"
	ledgerservice "github.com/smallbiznis/faktura/internal/ledger/service"
	"github.com/smallbiznis/faktura/internal/ledger/store"
	regdomain "github.com/smallbiznis/faktura/internal/registry/domain"
	"github.com/smallbiznis/faktura/internal/render"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Registry regdomain.Registry
	Renderer *render.Renderer
}

type CLI struct {
	cfg      config.Config
	log      *zap.Logger
	registry regdomain.Registry
	renderer *render.Renderer
	root     *cobra.Command
}

func New(p Params) *CLI {
	c := &CLI{
		cfg:      p.Cfg,
		log:      p.Log.Named("cli"),
		registry: p.Registry,
		renderer: p.Renderer,
	}
	c.root = &cobra.Command{
		Use:           "faktura",
		Short:         "Invoicing ledger for independent service providers",
		Version:       p.Cfg.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	c.root.AddCommand(
		c.tenantCmd(),
		c.providerCmd(),
		c.customerCmd(),
		c.complexCmd(),
		c.serviceCmd(),
		c.billCmd(),
		c.renderCmd(),
		c.overviewCmd(),
	)
	return c
}

func (c *CLI) Execute(ctx context.Context) error {
	return c.root.ExecuteContext(ctx)
}

// session is an open handle onto the active tenant's ledger store. The CLI
// owns the current handle and releases it after each command.
type session struct {
	store   *store.Store
	Tenant  regdomain.TenantEntry
	Ledger  ledgerdomain.Ledger
	Queries *query.Queries
}

func (s *session) Close() error { return s.store.Close() }

func (c *CLI) openActive(ctx context.Context) (*session, error) {
	entry, err := c.registry.ActiveTenant(ctx)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("no active tenant; create one with 'faktura tenant create'")
	}
	st, err := store.Open(entry.Dir)
	if err != nil {
		return nil, err
	}
	return &session{
		store:   st,
		Tenant:  *entry,
		Ledger:  ledgerservice.New(st.DB, c.log),
		Queries: query.New(st.DB, c.log),
	}, nil
}

// parseDate splits a d.m.y string into the three independent components.
// No calendar validation happens here or anywhere downstream.
func parseDate(s string) (ledgerdomain.Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return ledgerdomain.Date{}, fmt.Errorf("invalid date %q, want d.m.y", s)
	}
	var d ledgerdomain.Date
	var err error
	if d.Day, err = strconv.Atoi(parts[0]); err != nil {
		return ledgerdomain.Date{}, fmt.Errorf("invalid day in %q", s)
	}
	if d.Month, err = strconv.Atoi(parts[1]); err != nil {
		return ledgerdomain.Date{}, fmt.Errorf("invalid month in %q", s)
	}
	if d.Year, err = strconv.Atoi(parts[2]); err != nil {
		return ledgerdomain.Date{}, fmt.Errorf("invalid year in %q", s)
	}
	return d, nil
}

// parseAmount accepts the display convention with a decimal comma.
func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}
