package commands

import (
	"context"

	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"
	"slotboard/internal/pkg/errs"
	"slotboard/internal/realtime"

	"github.com/google/uuid"
)

var ErrValidation = errs.New("invalid day range parameters")

type CreateDayRangeInput struct {
	ResourceID uuid.UUID
	Day        string
	Start      string
	End        string
}

type DeleteDayRangeInput struct {
	ResourceID uuid.UUID
	Day        string
	Start      string
	End        string
}

// DayConfigCommands are the coordinator-role structural mutations.
// Guard evaluation happens inside the scope's serialized step, so these
// never race a concurrent hold or booking.
type DayConfigCommands interface {
	CreateDayRange(ctx context.Context, in CreateDayRangeInput) ([]realtime.SlotView, error)
	DeleteDayRange(ctx context.Context, in DeleteDayRangeInput) error
}

type dayConfigCommandsImpl struct {
	coordinator *realtime.Coordinator
}

func NewDayConfigCommands(coordinator *realtime.Coordinator) DayConfigCommands {
	return &dayConfigCommandsImpl{coordinator: coordinator}
}

func (c *dayConfigCommandsImpl) CreateDayRange(ctx context.Context, in CreateDayRangeInput) ([]realtime.SlotView, error) {
	rng, err := parseRange(in.ResourceID, in.Day, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	return c.coordinator.CreateRange(ctx, rng)
}

func (c *dayConfigCommandsImpl) DeleteDayRange(ctx context.Context, in DeleteDayRangeInput) error {
	rng, err := parseRange(in.ResourceID, in.Day, in.Start, in.End)
	if err != nil {
		return err
	}
	return c.coordinator.DeleteRange(ctx, rng)
}

func parseRange(resourceID uuid.UUID, dayStr, startStr, endStr string) (dayconfig.Range, error) {
	day, err := slot.NewDay(dayStr)
	if err != nil {
		return dayconfig.Range{}, errs.Mark(err, ErrValidation)
	}
	start, err := slot.NewTimeOfDay(startStr)
	if err != nil {
		return dayconfig.Range{}, errs.Mark(err, ErrValidation)
	}
	end, err := slot.NewTimeOfDay(endStr)
	if err != nil {
		return dayconfig.Range{}, errs.Mark(err, ErrValidation)
	}
	rng, err := dayconfig.NewRange(resourceID, day, start, end)
	if err != nil {
		return dayconfig.Range{}, errs.Mark(err, ErrValidation)
	}
	return rng, nil
}
