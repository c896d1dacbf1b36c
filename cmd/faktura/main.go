package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/smallbiznis/faktura/internal/cli"
	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/logger"
	"github.com/smallbiznis/faktura/internal/registry"
	"github.com/smallbiznis/faktura/internal/render"
)

func main() {
	var exitCode int

	app := fx.New(
		fx.NopLogger,

		// Core infrastructure
		config.Module,
		logger.Module,
		registry.Module,
		render.Module,

		fx.Provide(cli.New),
		fx.Invoke(func(c *cli.CLI, sd fx.Shutdowner) {
			if err := c.Execute(context.Background()); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				exitCode = 1
			}
			_ = sd.Shutdown()
		}),
	)

	app.Run()
	os.Exit(exitCode)
}
