package registry

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/faktura/internal/config"
	"github.com/smallbiznis/faktura/internal/registry/domain"
	"github.com/smallbiznis/faktura/internal/registry/service"
)

func provide(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (domain.Registry, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	reg, err := service.Open(cfg.RegistryPath(), log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			return reg.Close()
		},
	})
	return reg, nil
}

var Module = fx.Module("registry",
	fx.Provide(provide),
)
