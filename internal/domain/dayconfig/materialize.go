package dayconfig

import (
	"errors"
	"time"

	"slotboard/internal/domain/slot"
)

var ErrStepTooLarge = errors.New("slot duration exceeds range")

// Materialize splits a range into discrete free slots of the given
// duration. A trailing remainder shorter than step is not materialized.
func Materialize(rng Range, step time.Duration) ([]*slot.Slot, error) {
	stepMin := int(step.Minutes())
	if stepMin <= 0 {
		return nil, errors.New("slot duration must be positive")
	}
	if rng.End().Minutes()-rng.Start().Minutes() < stepMin {
		return nil, ErrStepTooLarge
	}

	var slots []*slot.Slot
	for cur := rng.Start(); cur.Minutes()+stepMin <= rng.End().Minutes(); cur = cur.Add(step) {
		s, err := slot.NewSlot(rng.ResourceID(), rng.Day(), cur, cur.Add(step))
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}
