package product

import (
	"github.com/Pexry/pexry2-sub001/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(service.NewService),
)
