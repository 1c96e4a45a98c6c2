package syncer

import (
	"context"

	"github.com/smallbiznis/kasira/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("syncer",
	fx.Provide(ProvideConfig),
	fx.Provide(New),
	fx.Invoke(runSyncer),
)

func ProvideConfig(cfg config.Config) Config {
	return Config{
		SyncInterval:        cfg.SyncInterval,
		CatalogPageSize:     cfg.CatalogPageSize,
		TransactionPageSize: cfg.TransactionPageSize,
	}.withDefaults()
}

func runSyncer(lc fx.Lifecycle, s *Syncer) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go s.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
