package syncstate

import "go.uber.org/fx"

// Module provides the sync watermark repository.
var Module = fx.Module("syncstate",
	fx.Provide(Provide),
)
