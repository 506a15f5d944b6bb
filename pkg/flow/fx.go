package flow

import (
	"go.uber.org/fx"
)

// Module is the fx module for pending input flows.
var Module = fx.Module("flow",
	fx.Provide(NewMachine),
)
