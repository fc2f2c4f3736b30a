package dayconfig

import (
	"errors"
	"fmt"

	"slotboard/internal/domain/slot"
)

var (
	ErrRangeOverlap = errors.New("range overlaps an existing range")
	ErrPastOrToday  = errors.New("cannot modify today or past")
)

// BookedOverlapError rejects a structural mutation that would destroy
// booked appointments. Count is surfaced verbatim to the caller.
type BookedOverlapError struct {
	Count int
}

func (e *BookedOverlapError) Error() string {
	return fmt.Sprintf("range overlaps %d booked slot(s)", e.Count)
}

// Guard validates structural day-config mutations. Checks run against
// the service's canonical clock, never client-supplied time.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// CanCreate rejects a new range that intersects an existing range for
// the same (resource, day), or targets today or an earlier day.
func (g *Guard) CanCreate(rng Range, existing []Range, today slot.Day) error {
	if err := g.checkEditable(rng, today); err != nil {
		return err
	}
	for _, e := range existing {
		if rng.Overlaps(e) {
			return ErrRangeOverlap
		}
	}
	return nil
}

// CanDelete rejects deletion of a range on today or an earlier day, or
// one containing booked slots. Held slots do not block deletion: a hold
// is not booked state, and the holder is notified through the removal
// broadcast.
func (g *Guard) CanDelete(rng Range, slots []*slot.Slot, today slot.Day) error {
	if err := g.checkEditable(rng, today); err != nil {
		return err
	}
	booked := 0
	for _, s := range slots {
		if rng.Covers(s) && s.IsBooked() {
			booked++
		}
	}
	if booked > 0 {
		return &BookedOverlapError{Count: booked}
	}
	return nil
}

func (g *Guard) checkEditable(rng Range, today slot.Day) error {
	if !rng.Day().After(today) {
		return ErrPastOrToday
	}
	return nil
}
