package components

import (
	"slotboard/internal/handler"
	"slotboard/internal/handler/api"
	"slotboard/internal/handler/middleware"
	"slotboard/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
		api.NewDayConfigHandler,
		api.NewStreamHandler,
		func(svc *jwt.Service) middleware.TokenValidator { return svc },
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
