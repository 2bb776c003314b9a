package expiry

import (
	"context"

	appconfig "github.com/Pexry/pexry2-sub001/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("order.expiry",
	fx.Provide(func(cfg appconfig.Config) Config {
		return Config{
			PollInterval: cfg.OrderExpiryInterval,
		}.withDefaults()
	}),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	loopCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(loopCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
