package audit

import (
	"github.com/smithline/atelier/internal/audit/repository"
	"github.com/smithline/atelier/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
