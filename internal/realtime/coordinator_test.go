//go:build unit

package realtime_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"
	"slotboard/internal/domain/user"
	"slotboard/internal/infra"
	"slotboard/internal/pkg/clock"
	"slotboard/internal/pkg/config"
	"slotboard/internal/pkg/errs"
	"slotboard/internal/realtime"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory stand-in for both stores, enforcing the
// same state+version transition guard the SQL layer does.
type fakeStore struct {
	mu     sync.Mutex
	rows   map[uuid.UUID]*slotRow
	ranges []dayconfig.Range
}

type slotRow struct {
	id         uuid.UUID
	resourceID uuid.UUID
	day        string
	startMin   int
	endMin     int
	state      slot.State
	heldBy     *uuid.UUID
	heldUntil  *time.Time
	bookedBy   *uuid.UUID
	version    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[uuid.UUID]*slotRow)}
}

func (f *fakeStore) Snapshot(_ context.Context, resourceID uuid.UUID, day slot.Day) ([]*slot.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var slots []*slot.Slot
	for _, row := range f.rows {
		if row.resourceID != resourceID || row.day != day.String() {
			continue
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}

func (f *fakeStore) Transition(_ context.Context, slotID uuid.UUID, from, to slot.State, heldBy *uuid.UUID, heldUntil *time.Time, bookedBy *uuid.UUID, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[slotID]
	if !ok {
		return infra.WrapRepoErr("slot not found", nil, infra.KindNotFound)
	}
	if row.state != from || row.version != expectedVersion {
		return infra.WrapRepoErr("slot state or version mismatch", nil, infra.KindConflict)
	}
	row.state = to
	row.heldBy = heldBy
	row.heldUntil = heldUntil
	row.bookedBy = bookedBy
	row.version++
	return nil
}

func (f *fakeStore) ListRanges(_ context.Context, resourceID uuid.UUID, day slot.Day) ([]dayconfig.Range, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []dayconfig.Range
	for _, rng := range f.ranges {
		if rng.ResourceID() == resourceID && rng.Day().Equal(day) {
			out = append(out, rng)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateRange(_ context.Context, rng dayconfig.Range, slots []*slot.Slot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.ranges {
		if existing.ResourceID() == rng.ResourceID() && existing.Day().Equal(rng.Day()) &&
			existing.Start().Minutes() == rng.Start().Minutes() && existing.End().Minutes() == rng.End().Minutes() {
			return infra.WrapRepoErr("day range already exists", nil, infra.KindDuplicateKey)
		}
	}
	f.ranges = append(f.ranges, rng)
	for _, s := range slots {
		f.rows[s.ID()] = rowFromDomain(s)
	}
	return nil
}

func (f *fakeStore) DeleteRange(_ context.Context, rng dayconfig.Range) ([]uuid.UUID, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booked := 0
	var removed []uuid.UUID
	for id, row := range f.rows {
		if row.resourceID != rng.ResourceID() || row.day != rng.Day().String() {
			continue
		}
		if row.startMin < rng.Start().Minutes() || row.endMin > rng.End().Minutes() {
			continue
		}
		if row.state == slot.StateBooked {
			booked++
			continue
		}
		removed = append(removed, id)
	}
	if booked > 0 {
		return nil, booked, nil
	}

	found := false
	for i, existing := range f.ranges {
		if existing.ResourceID() == rng.ResourceID() && existing.Day().Equal(rng.Day()) &&
			existing.Start().Minutes() == rng.Start().Minutes() && existing.End().Minutes() == rng.End().Minutes() {
			f.ranges = append(f.ranges[:i], f.ranges[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return nil, 0, infra.WrapRepoErr("day range not found", nil, infra.KindNotFound)
	}
	for _, id := range removed {
		delete(f.rows, id)
	}
	return removed, 0, nil
}

func (f *fakeStore) row(slotID uuid.UUID) slotRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[slotID]
}

func (r *slotRow) toDomain() (*slot.Slot, error) {
	day, err := slot.NewDay(r.day)
	if err != nil {
		return nil, err
	}
	start, err := slot.TimeOfDayFromMinutes(r.startMin)
	if err != nil {
		return nil, err
	}
	end, err := slot.TimeOfDayFromMinutes(r.endMin)
	if err != nil {
		return nil, err
	}
	return slot.Reconstruct(r.id, r.resourceID, day, start, end, r.state, r.heldBy, r.heldUntil, r.bookedBy, r.version)
}

func rowFromDomain(s *slot.Slot) *slotRow {
	return &slotRow{
		id:         s.ID(),
		resourceID: s.ResourceID(),
		day:        s.Day().String(),
		startMin:   s.Start().Minutes(),
		endMin:     s.End().Minutes(),
		state:      s.SlotState(),
		heldBy:     s.HeldBy(),
		heldUntil:  s.HeldUntil(),
		bookedBy:   s.BookedBy(),
		version:    s.Version(),
	}
}

// --- fixture ---

type coordFixture struct {
	coordinator *realtime.Coordinator
	store       *fakeStore
	clk         *clock.MockClock
	cfg         config.EngineConfig
	resourceID  uuid.UUID
	day         slot.Day
}

func newCoordFixture(t *testing.T) *coordFixture {
	t.Helper()

	store := newFakeStore()
	clk := clock.NewMockClock(baseTime)
	cfg := config.NewTestConfig().Engine
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	day, err := slot.NewDay("2030-06-15")
	require.NoError(t, err)

	return &coordFixture{
		coordinator: realtime.NewCoordinator(store, store, realtime.NewBroker(), clk, cfg, logger),
		store:       store,
		clk:         clk,
		cfg:         cfg,
		resourceID:  uuid.New(),
		day:         day,
	}
}

func (f *coordFixture) newMember(t *testing.T) *realtime.Session {
	t.Helper()
	return f.coordinator.NewSession(uuid.New(), user.RoleMember)
}

func (f *coordFixture) createRange(t *testing.T, start, end string) []realtime.SlotView {
	t.Helper()
	rng := f.buildRange(t, start, end)
	views, err := f.coordinator.CreateRange(context.Background(), rng)
	require.NoError(t, err)
	return views
}

func (f *coordFixture) buildRange(t *testing.T, start, end string) dayconfig.Range {
	t.Helper()
	startTod, err := slot.NewTimeOfDay(start)
	require.NoError(t, err)
	endTod, err := slot.NewTimeOfDay(end)
	require.NoError(t, err)
	rng, err := dayconfig.NewRange(f.resourceID, f.day, startTod, endTod)
	require.NoError(t, err)
	return rng
}

func eventTypes(events []realtime.Event) []realtime.EventType {
	types := make([]realtime.EventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func countType(events []realtime.Event, want realtime.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == want {
			n++
		}
	}
	return n
}

// --- tests ---

func TestJoinDay(t *testing.T) {
	t.Run("joiner receives a private snapshot then broadcasts", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "11:00")
		require.Len(t, views, 2)

		sess := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), sess, f.resourceID, f.day))

		events := drainEvents(sess)
		require.Len(t, events, 1)
		require.Equal(t, realtime.EventSlotsSnapshot, events[0].Type)

		snapshot := events[0].Data.(realtime.SlotsSnapshotPayload)
		assert.Equal(t, f.resourceID, snapshot.ResourceID)
		assert.Equal(t, "2030-06-15", snapshot.Day)
		require.Len(t, snapshot.Slots, 2)
		assert.Equal(t, "09:00", snapshot.Slots[0].Start)
		assert.Equal(t, "10:00", snapshot.Slots[1].Start)

		// Now a member of the day room.
		_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), snapshot.Slots[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 1, countType(drainEvents(sess), realtime.EventSlotHeld))

		// After leaving, broadcasts no longer arrive.
		f.coordinator.LeaveDay(sess, f.resourceID, f.day)
		_, err = f.coordinator.HoldSlot(context.Background(), f.newMember(t), snapshot.Slots[1].ID)
		require.NoError(t, err)
		assert.Empty(t, drainEvents(sess))
	})

	t.Run("empty scope yields an empty snapshot", func(t *testing.T) {
		f := newCoordFixture(t)
		sess := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), sess, f.resourceID, f.day))

		events := drainEvents(sess)
		require.Len(t, events, 1)
		assert.Empty(t, events[0].Data.(realtime.SlotsSnapshotPayload).Slots)
	})

	t.Run("closed session cannot join", func(t *testing.T) {
		f := newCoordFixture(t)
		sess := f.newMember(t)
		sess.Close()
		err := f.coordinator.JoinDay(context.Background(), sess, f.resourceID, f.day)
		assert.ErrorIs(t, err, realtime.ErrSessionClosed)
	})
}

func TestHoldSlot(t *testing.T) {
	t.Run("hold transitions the slot and broadcasts", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		holder := f.newMember(t)
		expiresAt, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		assert.Equal(t, baseTime.Add(f.cfg.HoldTTL), expiresAt)

		row := f.store.row(slotID)
		assert.Equal(t, slot.StateHeld, row.state)
		require.NotNil(t, row.heldBy)
		assert.Equal(t, holder.ID(), *row.heldBy)

		events := drainEvents(watcher)
		require.Len(t, events, 1)
		held := events[0].Data.(realtime.SlotHeldPayload)
		assert.Equal(t, slotID, held.SlotID)
		assert.Equal(t, holder.ID(), held.Holder)
		assert.Equal(t, expiresAt, held.ExpiresAt)
	})

	t.Run("exactly one concurrent hold wins", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		const attempts = 16
		var wg sync.WaitGroup
		results := make([]error, attempts)
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
			}()
		}
		wg.Wait()

		wins := 0
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, errs.ErrAlreadyHeld)
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, slot.StateHeld, f.store.row(slotID).state)
	})

	t.Run("booked and unknown slots", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		require.NoError(t, f.coordinator.BookSlot(context.Background(), holder, slotID))

		_, err = f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
		assert.ErrorIs(t, err, errs.ErrAlreadyBooked)

		_, err = f.coordinator.HoldSlot(context.Background(), f.newMember(t), uuid.New())
		assert.ErrorIs(t, err, errs.ErrSlotNotFound)
	})

	t.Run("an expired hold loses to a fresh attempt", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		first := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), first, slotID)
		require.NoError(t, err)

		f.clk.Add(f.cfg.HoldTTL + time.Second)

		second := f.newMember(t)
		_, err = f.coordinator.HoldSlot(context.Background(), second, slotID)
		require.NoError(t, err)

		row := f.store.row(slotID)
		require.NotNil(t, row.heldBy)
		assert.Equal(t, second.ID(), *row.heldBy)
	})
}

func TestReleaseHold(t *testing.T) {
	t.Run("owner release frees the slot and notifies day and drops rooms", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		dropsWatcher := f.newMember(t)
		f.coordinator.JoinDrops(dropsWatcher, f.resourceID)
		drainEvents(watcher)

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		drainEvents(watcher)

		require.NoError(t, f.coordinator.ReleaseHold(context.Background(), holder, slotID))

		assert.Equal(t, slot.StateFree, f.store.row(slotID).state)
		assert.Equal(t, 1, countType(drainEvents(watcher), realtime.EventSlotReleased))
		assert.Equal(t, 1, countType(drainEvents(dropsWatcher), realtime.EventSlotReleased))
	})

	t.Run("only the holder may release", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)

		err = f.coordinator.ReleaseHold(context.Background(), f.newMember(t), slotID)
		assert.ErrorIs(t, err, errs.ErrNotHolder)
		assert.Equal(t, slot.StateHeld, f.store.row(slotID).state)
	})
}

func TestBookSlot(t *testing.T) {
	t.Run("holder books, recording the user", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		drainEvents(watcher)

		require.NoError(t, f.coordinator.BookSlot(context.Background(), holder, slotID))

		row := f.store.row(slotID)
		assert.Equal(t, slot.StateBooked, row.state)
		require.NotNil(t, row.bookedBy)
		assert.Equal(t, holder.UserID(), *row.bookedBy)
		assert.Nil(t, row.heldBy)

		events := drainEvents(watcher)
		require.Len(t, events, 1)
		booked := events[0].Data.(realtime.SlotBookedPayload)
		assert.Equal(t, slotID, booked.SlotID)
		assert.Equal(t, holder.UserID(), booked.BookedBy)
	})

	t.Run("only the holder may book", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)

		assert.ErrorIs(t, f.coordinator.BookSlot(context.Background(), f.newMember(t), slotID), errs.ErrNotHolder)
		assert.ErrorIs(t, f.coordinator.BookSlot(context.Background(), f.newMember(t), uuid.New()), errs.ErrSlotNotFound)
	})

	t.Run("booking after expiry fails and frees the slot", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		drainEvents(watcher)

		f.clk.Add(f.cfg.HoldTTL + time.Second)

		assert.ErrorIs(t, f.coordinator.BookSlot(context.Background(), holder, slotID), errs.ErrHoldExpired)
		assert.Equal(t, slot.StateFree, f.store.row(slotID).state)
		assert.Equal(t, 1, countType(drainEvents(watcher), realtime.EventSlotReleased))
	})

	t.Run("booking a booked slot", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, slotID)
		require.NoError(t, err)
		require.NoError(t, f.coordinator.BookSlot(context.Background(), holder, slotID))

		assert.ErrorIs(t, f.coordinator.BookSlot(context.Background(), holder, slotID), errs.ErrAlreadyBooked)
	})
}

func TestSweep(t *testing.T) {
	t.Run("emits exactly one slot_released per expired hold", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "12:00")
		require.Len(t, views, 3)

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		for _, v := range views[:2] {
			_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), v.ID)
			require.NoError(t, err)
		}
		drainEvents(watcher)

		f.clk.Add(f.cfg.HoldTTL + time.Second)
		f.coordinator.SweepOnce(context.Background())

		events := drainEvents(watcher)
		assert.Equal(t, 2, countType(events, realtime.EventSlotReleased))
		assert.Equal(t, slot.StateFree, f.store.row(views[0].ID).state)
		assert.Equal(t, slot.StateFree, f.store.row(views[1].ID).state)

		// Idempotent: nothing left to reclaim.
		f.coordinator.SweepOnce(context.Background())
		assert.Empty(t, drainEvents(watcher))
	})

	t.Run("snapshot reports a lapsed hold as free before the sweep", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
		require.NoError(t, err)

		f.clk.Add(f.cfg.HoldTTL + time.Second)

		joiner := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), joiner, f.resourceID, f.day))

		events := drainEvents(joiner)
		require.Len(t, events, 1)
		snapshot := events[0].Data.(realtime.SlotsSnapshotPayload)
		require.Len(t, snapshot.Slots, 1)
		assert.Equal(t, slot.StateFree, snapshot.Slots[0].State)
		assert.Nil(t, snapshot.Slots[0].Holder)
	})

	t.Run("a join between expiry and the sweep does not swallow the release", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
		require.NoError(t, err)
		drainEvents(watcher)

		f.clk.Add(f.cfg.HoldTTL + time.Second)

		// The joiner's snapshot masks the lapsed hold as free; that
		// read must not consume the hold out from under the sweep.
		joiner := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), joiner, f.resourceID, f.day))
		snapshot := drainEvents(joiner)[0].Data.(realtime.SlotsSnapshotPayload)
		require.Equal(t, slot.StateFree, snapshot.Slots[0].State)

		f.coordinator.SweepOnce(context.Background())

		assert.Equal(t, 1, countType(drainEvents(watcher), realtime.EventSlotReleased))
		assert.Equal(t, slot.StateFree, f.store.row(slotID).state)
	})

	t.Run("retires cached state for past days", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "10:00")
		slotID := views[0].ID

		_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
		require.NoError(t, err)

		// Two days later the whole day is behind the clock: the sweep
		// reclaims the hold and then drops the scope from the cache.
		f.clk.Add(48 * time.Hour)
		f.coordinator.SweepOnce(context.Background())
		assert.Equal(t, slot.StateFree, f.store.row(slotID).state)

		_, err = f.coordinator.HoldSlot(context.Background(), f.newMember(t), slotID)
		assert.ErrorIs(t, err, errs.ErrSlotNotFound)

		// Durable rows survive eviction; a fresh join reloads them.
		joiner := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), joiner, f.resourceID, f.day))
		snapshot := drainEvents(joiner)[0].Data.(realtime.SlotsSnapshotPayload)
		require.Len(t, snapshot.Slots, 1)
		assert.Equal(t, slot.StateFree, snapshot.Slots[0].State)
	})
}

func TestCreateRange(t *testing.T) {
	t.Run("materializes slots and broadcasts a delta snapshot", func(t *testing.T) {
		f := newCoordFixture(t)

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		views := f.createRange(t, "09:00", "11:00")
		require.Len(t, views, 2)
		assert.Equal(t, "09:00", views[0].Start)
		assert.Equal(t, "10:00", views[0].End)
		assert.Equal(t, slot.StateFree, views[0].State)

		events := drainEvents(watcher)
		require.Equal(t, []realtime.EventType{realtime.EventSlotsSnapshot}, eventTypes(events))

		// The broadcast carries exactly the views returned to the caller.
		broadcast := events[0].Data.(realtime.SlotsSnapshotPayload)
		assert.Empty(t, cmp.Diff(views, broadcast.Slots))
	})

	t.Run("guard failures", func(t *testing.T) {
		f := newCoordFixture(t)
		f.createRange(t, "09:00", "11:00")

		_, err := f.coordinator.CreateRange(context.Background(), f.buildRange(t, "10:00", "12:00"))
		assert.ErrorIs(t, err, dayconfig.ErrRangeOverlap)

		today, err := slot.NewDay("2030-06-14")
		require.NoError(t, err)
		start, _ := slot.NewTimeOfDay("09:00")
		end, _ := slot.NewTimeOfDay("11:00")
		frozen, err := dayconfig.NewRange(f.resourceID, today, start, end)
		require.NoError(t, err)
		_, err = f.coordinator.CreateRange(context.Background(), frozen)
		assert.ErrorIs(t, err, dayconfig.ErrPastOrToday)
	})
}

func TestDeleteRange(t *testing.T) {
	t.Run("removes the range and its slots, dropping live holds", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "11:00")

		watcher := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
		drainEvents(watcher)

		_, err := f.coordinator.HoldSlot(context.Background(), f.newMember(t), views[0].ID)
		require.NoError(t, err)
		drainEvents(watcher)

		require.NoError(t, f.coordinator.DeleteRange(context.Background(), f.buildRange(t, "09:00", "11:00")))

		events := drainEvents(watcher)
		require.Equal(t, []realtime.EventType{realtime.EventSlotsRemoved}, eventTypes(events))
		removedRange := events[0].Data.(realtime.SlotsRemovedPayload).Range
		assert.Equal(t, "09:00", removedRange.Start)
		assert.Equal(t, "11:00", removedRange.End)

		// The slots are gone for good.
		_, err = f.coordinator.HoldSlot(context.Background(), f.newMember(t), views[0].ID)
		assert.ErrorIs(t, err, errs.ErrSlotNotFound)

		joiner := f.newMember(t)
		require.NoError(t, f.coordinator.JoinDay(context.Background(), joiner, f.resourceID, f.day))
		snapEvents := drainEvents(joiner)
		require.Len(t, snapEvents, 1)
		assert.Empty(t, snapEvents[0].Data.(realtime.SlotsSnapshotPayload).Slots)
	})

	t.Run("booked slots block deletion with a count", func(t *testing.T) {
		f := newCoordFixture(t)
		views := f.createRange(t, "09:00", "11:00")

		holder := f.newMember(t)
		_, err := f.coordinator.HoldSlot(context.Background(), holder, views[0].ID)
		require.NoError(t, err)
		require.NoError(t, f.coordinator.BookSlot(context.Background(), holder, views[0].ID))

		err = f.coordinator.DeleteRange(context.Background(), f.buildRange(t, "09:00", "11:00"))
		var bookedErr *dayconfig.BookedOverlapError
		require.ErrorAs(t, err, &bookedErr)
		assert.Equal(t, 1, bookedErr.Count)

		// Nothing was removed.
		assert.Equal(t, slot.StateBooked, f.store.row(views[0].ID).state)
		assert.Equal(t, slot.StateFree, f.store.row(views[1].ID).state)
	})

	t.Run("unknown range", func(t *testing.T) {
		f := newCoordFixture(t)
		f.createRange(t, "09:00", "11:00")

		err := f.coordinator.DeleteRange(context.Background(), f.buildRange(t, "13:00", "15:00"))
		assert.ErrorIs(t, err, dayconfig.ErrRangeNotFound)
	})
}

func TestDisconnect(t *testing.T) {
	f := newCoordFixture(t)
	views := f.createRange(t, "09:00", "11:00")

	watcher := f.newMember(t)
	require.NoError(t, f.coordinator.JoinDay(context.Background(), watcher, f.resourceID, f.day))
	drainEvents(watcher)

	holder := f.newMember(t)
	require.NoError(t, f.coordinator.JoinDay(context.Background(), holder, f.resourceID, f.day))
	_, err := f.coordinator.HoldSlot(context.Background(), holder, views[0].ID)
	require.NoError(t, err)
	_, err = f.coordinator.HoldSlot(context.Background(), holder, views[1].ID)
	require.NoError(t, err)
	drainEvents(watcher)

	f.coordinator.Disconnect(context.Background(), holder)

	assert.True(t, holder.Closed())
	assert.Equal(t, 2, countType(drainEvents(watcher), realtime.EventSlotReleased))
	assert.Equal(t, slot.StateFree, f.store.row(views[0].ID).state)
	assert.Equal(t, slot.StateFree, f.store.row(views[1].ID).state)
}
