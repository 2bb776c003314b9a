package notification

import (
	"github.com/Pexry/pexry2-sub001/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(service.NewService),
)
