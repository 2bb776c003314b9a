package payment

import (
	"github.com/Pexry/pexry2-sub001/internal/payment/adapters"
	"github.com/Pexry/pexry2-sub001/internal/payment/adapters/nowpayments"
	paymentdomain "github.com/Pexry/pexry2-sub001/internal/payment/domain"
	"github.com/Pexry/pexry2-sub001/internal/payment/repository"
	"github.com/Pexry/pexry2-sub001/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(func() *adapters.Registry {
		return adapters.NewRegistry(nowpayments.NewAdapter())
	}),
	fx.Provide(func(c *nowpayments.Client) paymentdomain.Provider { return c }),
	fx.Provide(nowpayments.NewClient),
	fx.Provide(service.NewService),
)
