package response

import (
	"time"

	"slotboard/internal/realtime"
	"slotboard/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        uuid.UUID  `json:"slot_id"`
	Start     string     `json:"start"`
	End       string     `json:"end"`
	State     string     `json:"state"`
	Holder    *uuid.UUID `json:"holder,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	BookedBy  *uuid.UUID `json:"booked_by,omitempty"`
}

type DaySlotsResponse struct {
	ResourceID uuid.UUID      `json:"resource_id"`
	Day        string         `json:"day"`
	Slots      []SlotResponse `json:"slots"`
}

type DayRangeResponse struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Day        string    `json:"day"`
	Start      string    `json:"start"`
	End        string    `json:"end"`
}

type HoldResponse struct {
	SlotID    uuid.UUID `json:"slot_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func FromSlotDayView(v *queries.SlotDayView) SlotResponse {
	return SlotResponse{
		ID:        v.ID,
		Start:     v.Start,
		End:       v.End,
		State:     v.State,
		Holder:    v.HeldBy,
		ExpiresAt: v.HeldUntil,
		BookedBy:  v.BookedBy,
	}
}

func FromDayRangeView(v *queries.DayRangeView) DayRangeResponse {
	return DayRangeResponse{
		ResourceID: v.ResourceID,
		Day:        v.Day,
		Start:      v.Start,
		End:        v.End,
	}
}

func FromSlotView(v realtime.SlotView) SlotResponse {
	return SlotResponse{
		ID:        v.ID,
		Start:     v.Start,
		End:       v.End,
		State:     string(v.State),
		Holder:    v.Holder,
		ExpiresAt: v.ExpiresAt,
		BookedBy:  v.BookedBy,
	}
}
