package metrics

import (
	"github.com/smallbiznis/kasira/internal/config"
	"go.uber.org/fx"
)

// Module pins the sync metrics singleton to the configured service labels
// before any component records a sample.
var Module = fx.Module("observability.metrics",
	fx.Invoke(func(cfg config.Config) {
		SyncWithConfig(Config{
			ServiceName: cfg.AppName,
			Environment: cfg.Environment,
		})
	}),
)
