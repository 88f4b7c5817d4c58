package earning

import (
	"github.com/smithline/atelier/internal/earning/repository"
	"github.com/smithline/atelier/internal/earning/service"
	"go.uber.org/fx"
)

var Module = fx.Module("earning.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
