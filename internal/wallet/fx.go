package wallet

import (
	"github.com/Pexry/pexry2-sub001/internal/wallet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("wallet.service",
	fx.Provide(service.NewService),
)
