package bootstrap

import (
	"marketplace-booking/internal/pkg/clock"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config, clk clock.Clock) *jwt.Service {
	return jwt.NewService(cfg.JWT, clk)
}
