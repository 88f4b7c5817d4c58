package identity

import (
	"github.com/smithline/atelier/internal/identity/repository"
	"github.com/smithline/atelier/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
