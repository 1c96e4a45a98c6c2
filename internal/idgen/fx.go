package idgen

import "go.uber.org/fx"

// Module provides the offline ID generator.
var Module = fx.Module("idgen",
	fx.Provide(NewULIDGenerator),
)
