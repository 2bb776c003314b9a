package agent

import (
	"github.com/Pexry/pexry2-sub001/internal/agent/service"
	"go.uber.org/fx"
)

var Module = fx.Module("agent.service",
	fx.Provide(service.NewService),
)
