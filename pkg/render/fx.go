package render

import (
	"go.uber.org/fx"
)

// Module is the fx module for view rendering.
var Module = fx.Module("render",
	fx.Provide(New),
)
