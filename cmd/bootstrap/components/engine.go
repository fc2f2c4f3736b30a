package components

import (
	"context"
	"log/slog"

	"slotboard/internal/pkg/clock"
	"slotboard/internal/pkg/config"
	"slotboard/internal/realtime"

	"go.uber.org/fx"
)

var EngineModule = fx.Module("engine",
	fx.Provide(
		clock.NewRealClock,
		realtime.NewBroker,
		NewCoordinator,
	),
)

func NewCoordinator(
	lc fx.Lifecycle,
	slots realtime.SlotStore,
	ranges realtime.RangeStore,
	broker *realtime.Broker,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) *realtime.Coordinator {
	coordinator := realtime.NewCoordinator(slots, ranges, broker, clk, cfg.Engine, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			coordinator.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			coordinator.Stop()
			return nil
		},
	})

	return coordinator
}
