package realtime

import (
	"time"

	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
)

type EventType string

const (
	EventHello         EventType = "hello"
	EventSlotsSnapshot EventType = "slots_snapshot"
	EventSlotHeld      EventType = "slot_held"
	EventSlotReleased  EventType = "slot_released"
	EventSlotBooked    EventType = "slot_booked"
	EventSlotsRemoved  EventType = "slots_removed"
	EventError         EventType = "error"
)

// Event is the wire envelope delivered on session queues. Data is one
// of the payload structs below.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

type HelloPayload struct {
	SessionID uuid.UUID `json:"session_id"`
}

type SlotView struct {
	ID        uuid.UUID  `json:"slot_id"`
	Start     string     `json:"start"`
	End       string     `json:"end"`
	State     slot.State `json:"state"`
	Holder    *uuid.UUID `json:"holder,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	BookedBy  *uuid.UUID `json:"booked_by,omitempty"`
}

type SlotsSnapshotPayload struct {
	ResourceID uuid.UUID  `json:"resource_id"`
	Day        string     `json:"day"`
	Slots      []SlotView `json:"slots"`
}

type SlotHeldPayload struct {
	SlotID    uuid.UUID `json:"slot_id"`
	Holder    uuid.UUID `json:"holder"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SlotReleasedPayload struct {
	SlotID uuid.UUID `json:"slot_id"`
}

type SlotBookedPayload struct {
	SlotID   uuid.UUID `json:"slot_id"`
	BookedBy uuid.UUID `json:"booked_by"`
}

type RangeView struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Day        string    `json:"day"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
}

type SlotsRemovedPayload struct {
	Range RangeView `json:"range"`
}

type ErrorPayload struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

func NewSlotView(s *slot.Slot) SlotView {
	return SlotView{
		ID:        s.ID(),
		Start:     s.Start().String(),
		End:       s.End().String(),
		State:     s.SlotState(),
		Holder:    s.HeldBy(),
		ExpiresAt: s.HeldUntil(),
		BookedBy:  s.BookedBy(),
	}
}
