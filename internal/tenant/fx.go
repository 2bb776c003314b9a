package tenant

import (
	"github.com/Pexry/pexry2-sub001/internal/tenant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tenant.service",
	fx.Provide(service.NewService),
)
