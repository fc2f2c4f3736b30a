package queries

import (
	"context"
	"time"

	"slotboard/internal/domain/slot"
	"slotboard/internal/pkg/errs"

	"github.com/google/uuid"
)

type SlotDayView struct {
	ID        uuid.UUID
	Start     string
	End       string
	State     string
	HeldBy    *uuid.UUID
	HeldUntil *time.Time
	BookedBy  *uuid.UUID
}

type DayRangeView struct {
	ResourceID uuid.UUID
	Day        string
	Start      string
	End        string
}

type SlotReadStore interface {
	ListDaySlots(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*SlotDayView, error)
	ListDayRanges(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*DayRangeView, error)
}

// SlotQueries is the non-streaming read surface: the same view a
// joining session receives as its snapshot, for plain HTTP clients.
type SlotQueries interface {
	GetDaySlots(ctx context.Context, resourceID uuid.UUID, day string) ([]*SlotDayView, error)
	GetDayRanges(ctx context.Context, resourceID uuid.UUID, day string) ([]*DayRangeView, error)
}

var ErrInvalidDay = errs.New("invalid day")

type slotQueriesImpl struct {
	store SlotReadStore
}

func NewSlotQueries(store SlotReadStore) SlotQueries {
	return &slotQueriesImpl{store: store}
}

func (q *slotQueriesImpl) GetDaySlots(ctx context.Context, resourceID uuid.UUID, dayStr string) ([]*SlotDayView, error) {
	day, err := slot.NewDay(dayStr)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDay)
	}
	return q.store.ListDaySlots(ctx, resourceID, day)
}

func (q *slotQueriesImpl) GetDayRanges(ctx context.Context, resourceID uuid.UUID, dayStr string) ([]*DayRangeView, error) {
	day, err := slot.NewDay(dayStr)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDay)
	}
	return q.store.ListDayRanges(ctx, resourceID, day)
}
