package order

import (
	"github.com/Pexry/pexry2-sub001/internal/order/expiry"
	"github.com/Pexry/pexry2-sub001/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(service.NewService),
	expiry.Module,
)
