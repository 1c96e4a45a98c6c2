package remote

import "go.uber.org/fx"

// Module provides the remote API client.
var Module = fx.Module("remote.client",
	fx.Provide(New),
)
