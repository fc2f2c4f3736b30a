package dayconfig

import (
	"errors"

	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
)

var (
	ErrInvalidRange  = errors.New("range start must be before end")
	ErrRangeNotFound = errors.New("day range not found")
)

// Range is a bookable window template for one resource on one day.
// Ranges for the same (resource, day) never overlap.
type Range struct {
	resourceID uuid.UUID
	day        slot.Day
	start      slot.TimeOfDay
	end        slot.TimeOfDay
}

func NewRange(resourceID uuid.UUID, day slot.Day, start, end slot.TimeOfDay) (Range, error) {
	if !start.Before(end) {
		return Range{}, ErrInvalidRange
	}
	return Range{resourceID: resourceID, day: day, start: start, end: end}, nil
}

func (r Range) ResourceID() uuid.UUID  { return r.resourceID }
func (r Range) Day() slot.Day          { return r.day }
func (r Range) Start() slot.TimeOfDay  { return r.start }
func (r Range) End() slot.TimeOfDay    { return r.end }

func (r Range) Overlaps(o Range) bool {
	if r.resourceID != o.resourceID || !r.day.Equal(o.day) {
		return false
	}
	return r.start.Before(o.end) && o.start.Before(r.end)
}

// Covers reports whether s lies entirely inside this range.
func (r Range) Covers(s *slot.Slot) bool {
	return s.ResourceID() == r.resourceID && s.Within(r.day, r.start, r.end)
}
