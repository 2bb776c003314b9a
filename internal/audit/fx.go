package audit

import (
	"github.com/Pexry/pexry2-sub001/internal/audit/repository"
	"github.com/Pexry/pexry2-sub001/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
