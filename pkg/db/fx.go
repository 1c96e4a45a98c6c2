package db

import (
	"context"

	"github.com/smallbiznis/kasira/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module opens the embedded store and closes it on shutdown.
var Module = fx.Module("db",
	fx.Provide(func(cfg config.Config) (*gorm.DB, error) {
		return Open(Config{Path: cfg.DBPath})
	}),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, conn *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = ctx
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
