//go:build unit || e2e

package builder

import (
	"time"

	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
)

// SlotBuilder assembles a slot entity with sensible defaults for
// tests; mutate it through the With* methods.
type SlotBuilder struct {
	id         uuid.UUID
	resourceID uuid.UUID
	day        string
	start      string
	end        string
	state      slot.State
	heldBy     *uuid.UUID
	heldUntil  *time.Time
	bookedBy   *uuid.UUID
	version    int64
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		id:         uuid.New(),
		resourceID: uuid.New(),
		day:        "2030-06-15",
		start:      "09:00",
		end:        "10:00",
		state:      slot.StateFree,
	}
}

func (b *SlotBuilder) WithID(id uuid.UUID) *SlotBuilder {
	b.id = id
	return b
}

func (b *SlotBuilder) WithResourceID(id uuid.UUID) *SlotBuilder {
	b.resourceID = id
	return b
}

func (b *SlotBuilder) WithDay(day string) *SlotBuilder {
	b.day = day
	return b
}

func (b *SlotBuilder) WithTimes(start, end string) *SlotBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *SlotBuilder) Held(holder uuid.UUID, until time.Time) *SlotBuilder {
	b.state = slot.StateHeld
	b.heldBy = &holder
	b.heldUntil = &until
	b.version++
	return b
}

func (b *SlotBuilder) Booked(userID uuid.UUID) *SlotBuilder {
	b.state = slot.StateBooked
	b.bookedBy = &userID
	b.version++
	return b
}

func (b *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	day, err := slot.NewDay(b.day)
	if err != nil {
		return nil, err
	}
	start, err := slot.NewTimeOfDay(b.start)
	if err != nil {
		return nil, err
	}
	end, err := slot.NewTimeOfDay(b.end)
	if err != nil {
		return nil, err
	}
	return slot.Reconstruct(b.id, b.resourceID, day, start, end, b.state, b.heldBy, b.heldUntil, b.bookedBy, b.version)
}
