package bootstrap

import (
	"marketplace-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HoldStoreModule,
	components.NotifyModule,
	components.HandlerModule,
)
