package bootstrap

import (
	"slotboard/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.EngineModule,
	components.UseCaseModule,
	components.HandlerModule,
)
