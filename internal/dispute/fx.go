package dispute

import (
	"github.com/Pexry/pexry2-sub001/internal/dispute/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispute.service",
	fx.Provide(service.NewService),
)
