package creatorreport

import (
	"github.com/smithline/atelier/internal/creatorreport/service"
	"go.uber.org/fx"
)

var Module = fx.Module("creatorreport.service",
	fx.Provide(service.NewService),
)
