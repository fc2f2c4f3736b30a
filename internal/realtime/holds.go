package realtime

import (
	"sync"
	"time"

	"slotboard/internal/pkg/clock"
	"slotboard/internal/pkg/errs"

	"github.com/google/uuid"
)

// Hold is an ephemeral exclusive claim on a slot. Not persisted: a
// restart drops all holds, which clients recover from via re-snapshot.
type Hold struct {
	SlotID    uuid.UUID
	Holder    uuid.UUID
	ExpiresAt time.Time
}

func (h Hold) expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

// HoldRegistry arbitrates concurrent hold attempts. First successful
// TryHold wins; later attempts fail immediately so clients get fast
// feedback. A hold past its expiry is logically absent even before the
// sweep runs.
type HoldRegistry struct {
	mu    sync.Mutex
	clk   clock.Clock
	holds map[uuid.UUID]Hold
}

func NewHoldRegistry(clk clock.Clock) *HoldRegistry {
	return &HoldRegistry{
		clk:   clk,
		holds: make(map[uuid.UUID]Hold),
	}
}

func (r *HoldRegistry) TryHold(slotID, holder uuid.UUID, ttl time.Duration) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clk.Now()
	if h, ok := r.holds[slotID]; ok && !h.expired(now) {
		return time.Time{}, errs.ErrAlreadyHeld
	}

	expiresAt := now.Add(ttl)
	r.holds[slotID] = Hold{SlotID: slotID, Holder: holder, ExpiresAt: expiresAt}
	return expiresAt, nil
}

// Release fails with ErrNotHolder when the caller does not own an
// active hold, which signals a stale client.
func (r *HoldRegistry) Release(slotID, holder uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holds[slotID]
	if !ok || h.expired(r.clk.Now()) || h.Holder != holder {
		return errs.ErrNotHolder
	}
	delete(r.holds, slotID)
	return nil
}

// Promote consumes the hold on the way to booking: the sole path from
// held to booked, so no slot is ever booked without a hold owned by
// the booking actor.
func (r *HoldRegistry) Promote(slotID, holder uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holds[slotID]
	if !ok {
		return errs.ErrNotHolder
	}
	if h.expired(r.clk.Now()) {
		delete(r.holds, slotID)
		return errs.ErrHoldExpired
	}
	if h.Holder != holder {
		return errs.ErrNotHolder
	}
	delete(r.holds, slotID)
	return nil
}

// Get returns the active hold for a slot. A lapsed hold reads as
// absent but is NOT removed here: reclamation stays with Sweep and the
// explicit release paths, so the slot_released broadcast cannot be
// lost to a read-only caller observing the expiry first.
func (r *HoldRegistry) Get(slotID uuid.UUID) (Hold, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holds[slotID]
	if !ok || h.expired(r.clk.Now()) {
		return Hold{}, false
	}
	return h, true
}

// Empty reports whether no holds remain, expired or not.
func (r *HoldRegistry) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.holds) == 0
}

// Sweep removes every hold at or past expiry and returns them so the
// caller can emit the matching slot_released events.
func (r *HoldRegistry) Sweep(now time.Time) []Hold {
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []Hold
	for id, h := range r.holds {
		if h.expired(now) {
			expired = append(expired, h)
			delete(r.holds, id)
		}
	}
	return expired
}

// ReleaseOwnedBy drops every hold owned by the holder, as on disconnect.
func (r *HoldRegistry) ReleaseOwnedBy(holder uuid.UUID) []Hold {
	r.mu.Lock()
	defer r.mu.Unlock()

	var released []Hold
	now := r.clk.Now()
	for id, h := range r.holds {
		if h.Holder == holder {
			if !h.expired(now) {
				released = append(released, h)
			}
			delete(r.holds, id)
		}
	}
	return released
}

// Drop removes a hold regardless of owner, used when the slot itself is
// removed by a day-config deletion.
func (r *HoldRegistry) Drop(slotID uuid.UUID) (Hold, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holds[slotID]
	if ok {
		delete(r.holds, slotID)
	}
	return h, ok && !h.expired(r.clk.Now())
}
