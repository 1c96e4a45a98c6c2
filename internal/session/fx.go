package session

import "go.uber.org/fx"

// Module provides the device session manager.
var Module = fx.Module("session",
	fx.Provide(NewManager),
)
