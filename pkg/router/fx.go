package router

import (
	"go.uber.org/fx"
)

// Module is the fx module for message routing.
var Module = fx.Module("router",
	fx.Provide(New),
)
