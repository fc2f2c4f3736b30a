package components

import (
	"slotboard/internal/usecase/commands"
	"slotboard/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		commands.NewDayConfigCommands,
		queries.NewSlotQueries,
	),
)
