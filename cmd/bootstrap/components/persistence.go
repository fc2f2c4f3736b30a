package components

import (
	"slotboard/internal/infra/readstore"
	"slotboard/internal/infra/repository"
	"slotboard/internal/realtime"
	"slotboard/internal/usecase/queries"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		fx.Annotate(
			repository.NewSlotRepository,
			fx.As(new(realtime.SlotStore)),
		),
		fx.Annotate(
			repository.NewDayConfigRepository,
			fx.As(new(realtime.RangeStore)),
		),
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReadStore)),
		),
	),
)
