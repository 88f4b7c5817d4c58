package catalog

import (
	"github.com/smithline/atelier/internal/catalog/repository"
	"github.com/smithline/atelier/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
