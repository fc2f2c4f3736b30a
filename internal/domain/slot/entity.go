package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFree      = errors.New("slot is not free")
	ErrNotHeld      = errors.New("slot is not held")
	ErrInvalidState = errors.New("invalid slot state")
	ErrInvalidTimes = errors.New("slot start must be before end")
)

type State string

const (
	StateFree   State = "free"
	StateHeld   State = "held"
	StateBooked State = "booked"
)

func (s State) IsValid() bool {
	switch s {
	case StateFree, StateHeld, StateBooked:
		return true
	default:
		return false
	}
}

// Slot is one bookable occurrence materialized from a day-config range.
// At most one of heldBy/bookedBy is set at a time; version backs the
// optimistic checks the store performs on every transition.
type Slot struct {
	id         uuid.UUID
	resourceID uuid.UUID
	day        Day
	start      TimeOfDay
	end        TimeOfDay
	state      State
	heldBy     *uuid.UUID
	heldUntil  *time.Time
	bookedBy   *uuid.UUID
	version    int64
}

func NewSlot(resourceID uuid.UUID, day Day, start, end TimeOfDay) (*Slot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimes
	}
	return &Slot{
		id:         uuid.New(),
		resourceID: resourceID,
		day:        day,
		start:      start,
		end:        end,
		state:      StateFree,
		version:    1,
	}, nil
}

func Reconstruct(
	id, resourceID uuid.UUID,
	day Day,
	start, end TimeOfDay,
	state State,
	heldBy *uuid.UUID,
	heldUntil *time.Time,
	bookedBy *uuid.UUID,
	version int64,
) (*Slot, error) {
	if !state.IsValid() {
		return nil, ErrInvalidState
	}
	return &Slot{
		id:         id,
		resourceID: resourceID,
		day:        day,
		start:      start,
		end:        end,
		state:      state,
		heldBy:     heldBy,
		heldUntil:  heldUntil,
		bookedBy:   bookedBy,
		version:    version,
	}, nil
}

func (s *Slot) Hold(holder uuid.UUID, until time.Time) error {
	if s.state != StateFree {
		return ErrNotFree
	}
	h := holder
	u := until
	s.state = StateHeld
	s.heldBy = &h
	s.heldUntil = &u
	s.bookedBy = nil
	s.version++
	return nil
}

func (s *Slot) Release() error {
	if s.state != StateHeld {
		return ErrNotHeld
	}
	s.state = StateFree
	s.heldBy = nil
	s.heldUntil = nil
	s.version++
	return nil
}

// Book promotes a held slot. Booked is terminal for this occurrence;
// cancellation flows live outside the engine.
func (s *Slot) Book(userID uuid.UUID) error {
	if s.state != StateHeld {
		return ErrNotHeld
	}
	b := userID
	s.state = StateBooked
	s.heldBy = nil
	s.heldUntil = nil
	s.bookedBy = &b
	s.version++
	return nil
}

func (s *Slot) IsBooked() bool { return s.state == StateBooked }
func (s *Slot) IsHeld() bool   { return s.state == StateHeld }
func (s *Slot) IsFree() bool   { return s.state == StateFree }

// Within reports whether the slot falls inside [start, end) on the same day.
func (s *Slot) Within(day Day, start, end TimeOfDay) bool {
	if !s.day.Equal(day) {
		return false
	}
	return !s.start.Before(start) && !end.Before(s.end)
}

func (s *Slot) ID() uuid.UUID         { return s.id }
func (s *Slot) ResourceID() uuid.UUID { return s.resourceID }
func (s *Slot) Day() Day              { return s.day }
func (s *Slot) Start() TimeOfDay      { return s.start }
func (s *Slot) End() TimeOfDay        { return s.end }
func (s *Slot) SlotState() State      { return s.state }
func (s *Slot) HeldBy() *uuid.UUID    { return s.heldBy }
func (s *Slot) HeldUntil() *time.Time { return s.heldUntil }
func (s *Slot) BookedBy() *uuid.UUID  { return s.bookedBy }
func (s *Slot) Version() int64        { return s.version }
