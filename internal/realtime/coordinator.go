package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"slotboard/internal/domain/dayconfig"
	"slotboard/internal/domain/slot"
	"slotboard/internal/domain/user"
	"slotboard/internal/infra"
	"slotboard/internal/pkg/clock"
	"slotboard/internal/pkg/config"
	"slotboard/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrSessionClosed = errors.New("session closed")

// SlotStore is the durable source of truth for slot state.
type SlotStore interface {
	Snapshot(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]*slot.Slot, error)
	Transition(ctx context.Context, slotID uuid.UUID, from, to slot.State, heldBy *uuid.UUID, heldUntil *time.Time, bookedBy *uuid.UUID, expectedVersion int64) error
}

// RangeStore owns day-config rows and the structural mutations that
// touch the slots table alongside them.
type RangeStore interface {
	ListRanges(ctx context.Context, resourceID uuid.UUID, day slot.Day) ([]dayconfig.Range, error)
	CreateRange(ctx context.Context, rng dayconfig.Range, slots []*slot.Slot) error
	DeleteRange(ctx context.Context, rng dayconfig.Range) (removed []uuid.UUID, booked int, err error)
}

type scopeKey struct {
	resourceID uuid.UUID
	day        string
}

// scope serializes everything that mutates one (resource, day): slot
// transitions, join snapshots, range edits, sweep. Different scopes
// share no mutable state and run fully in parallel.
type scope struct {
	mu         sync.Mutex
	resourceID uuid.UUID
	day        slot.Day
	slots      map[uuid.UUID]*slot.Slot
	holds      *HoldRegistry
	loaded     bool
}

// Coordinator orchestrates the engine: it receives client intents,
// applies them through the per-scope serialization points, and emits
// broadcast events. Domain errors come back as values; nothing a single
// session does can tear a scope down.
type Coordinator struct {
	slots  SlotStore
	ranges RangeStore
	broker *Broker
	guard  *dayconfig.Guard
	clk    clock.Clock
	cfg    config.EngineConfig
	logger *slog.Logger

	mu         sync.Mutex
	scopes     map[scopeKey]*scope
	slotScopes map[uuid.UUID]scopeKey

	stopSweep chan struct{}
	sweepDone chan struct{}
}

func NewCoordinator(
	slots SlotStore,
	ranges RangeStore,
	broker *Broker,
	clk clock.Clock,
	cfg config.EngineConfig,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		slots:      slots,
		ranges:     ranges,
		broker:     broker,
		guard:      dayconfig.NewGuard(),
		clk:        clk,
		cfg:        cfg,
		logger:     logger,
		scopes:     make(map[scopeKey]*scope),
		slotScopes: make(map[uuid.UUID]scopeKey),
	}
}

func (c *Coordinator) Broker() *Broker {
	return c.broker
}

// NewSession creates and registers a session with the configured
// outbound queue bound.
func (c *Coordinator) NewSession(userID uuid.UUID, role user.Role) *Session {
	sess := NewSession(userID, role, c.cfg.SessionQueueSize)
	c.broker.Register(sess)
	return sess
}

// JoinDay sends the requester a private snapshot of the scope and then
// adds it to the day room, both under the scope's serialization point,
// so the client can never miss or duplicate an event between snapshot
// and join.
func (c *Coordinator) JoinDay(ctx context.Context, sess *Session, resourceID uuid.UUID, day slot.Day) error {
	sc := c.getScope(resourceID, day)
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx, sc); err != nil {
		return err
	}

	snapshot := Event{Type: EventSlotsSnapshot, Data: c.snapshotLocked(sc)}
	if !sess.TrySend(snapshot) {
		return ErrSessionClosed
	}
	c.broker.Join(sess, DayTopic(resourceID, day))
	return nil
}

func (c *Coordinator) LeaveDay(sess *Session, resourceID uuid.UUID, day slot.Day) {
	c.broker.Leave(sess, DayTopic(resourceID, day))
}

func (c *Coordinator) JoinDrops(sess *Session, resourceID uuid.UUID) {
	c.broker.Join(sess, DropsTopic(resourceID))
}

// HoldSlot places a time-bounded exclusive claim. Exactly one of any
// set of concurrent attempts on the same slot succeeds.
func (c *Coordinator) HoldSlot(ctx context.Context, sess *Session, slotID uuid.UUID) (time.Time, error) {
	sc, err := c.scopeForSlot(slotID)
	if err != nil {
		return time.Time{}, err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	s, ok := sc.slots[slotID]
	if !ok {
		return time.Time{}, errs.ErrSlotNotFound
	}
	if s.IsBooked() {
		return time.Time{}, errs.ErrAlreadyBooked
	}
	c.lazyExpireLocked(ctx, sc, s)

	expiresAt, err := sc.holds.TryHold(slotID, sess.ID(), c.cfg.HoldTTL)
	if err != nil {
		return time.Time{}, err
	}

	holder := sess.ID()
	if err := c.slots.Transition(ctx, slotID, slot.StateFree, slot.StateHeld, &holder, &expiresAt, nil, s.Version()); err != nil {
		sc.holds.Release(slotID, holder)
		return time.Time{}, c.storeErrLocked(ctx, sc, err, "hold")
	}
	if err := s.Hold(holder, expiresAt); err != nil {
		// Cache disagreed with the store; resync rather than guess.
		c.reloadLocked(ctx, sc)
		return time.Time{}, errs.Mark(err, errs.ErrSlotConflict)
	}

	c.broadcastDayLocked(sc, Event{Type: EventSlotHeld, Data: SlotHeldPayload{
		SlotID:    slotID,
		Holder:    holder,
		ExpiresAt: expiresAt,
	}})
	return expiresAt, nil
}

// ReleaseHold gives a held slot back. Releasing a hold you do not own
// fails with ErrNotHolder; an expired hold counts as not owned.
func (c *Coordinator) ReleaseHold(ctx context.Context, sess *Session, slotID uuid.UUID) error {
	sc, err := c.scopeForSlot(slotID)
	if err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	s, ok := sc.slots[slotID]
	if !ok {
		return errs.ErrSlotNotFound
	}
	if err := sc.holds.Release(slotID, sess.ID()); err != nil {
		// Stale claim: still reclaim the slot if its hold has lapsed.
		c.lazyExpireLocked(ctx, sc, s)
		return err
	}
	return c.releaseSlotLocked(ctx, sc, s)
}

// BookSlot promotes a hold into a booking. Only the current holder may
// book; the same caller after expiry gets ErrHoldExpired.
func (c *Coordinator) BookSlot(ctx context.Context, sess *Session, slotID uuid.UUID) error {
	sc, err := c.scopeForSlot(slotID)
	if err != nil {
		return err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()

	s, ok := sc.slots[slotID]
	if !ok {
		return errs.ErrSlotNotFound
	}
	if s.IsBooked() {
		return errs.ErrAlreadyBooked
	}

	if err := sc.holds.Promote(slotID, sess.ID()); err != nil {
		if errors.Is(err, errs.ErrHoldExpired) && s.IsHeld() {
			// The lapsed hold is gone either way; free the slot now
			// instead of waiting for the sweep.
			if relErr := c.releaseSlotLocked(ctx, sc, s); relErr != nil {
				c.logger.Warn("failed to reclaim expired hold during book",
					"slot_id", slotID, "error", relErr)
			}
		}
		return err
	}

	bookedBy := sess.UserID()
	if err := c.slots.Transition(ctx, slotID, slot.StateHeld, slot.StateBooked, nil, nil, &bookedBy, s.Version()); err != nil {
		return c.storeErrLocked(ctx, sc, err, "book")
	}
	if err := s.Book(bookedBy); err != nil {
		c.reloadLocked(ctx, sc)
		return errs.Mark(err, errs.ErrSlotConflict)
	}

	c.broadcastDayLocked(sc, Event{Type: EventSlotBooked, Data: SlotBookedPayload{
		SlotID:   slotID,
		BookedBy: bookedBy,
	}})
	return nil
}

// CreateRange validates and materializes a new day-config range, then
// broadcasts the new slots as a delta snapshot to the day room. Guard
// evaluation and the store mutation happen in the same serialized step.
func (c *Coordinator) CreateRange(ctx context.Context, rng dayconfig.Range) ([]SlotView, error) {
	sc := c.getScope(rng.ResourceID(), rng.Day())
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx, sc); err != nil {
		return nil, err
	}

	existing, err := c.ranges.ListRanges(ctx, rng.ResourceID(), rng.Day())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if err := c.guard.CanCreate(rng, existing, slot.DayOf(c.clk.Now())); err != nil {
		return nil, err
	}

	created, err := dayconfig.Materialize(rng, c.cfg.SlotDuration)
	if err != nil {
		return nil, err
	}
	if err := c.ranges.CreateRange(ctx, rng, created); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, dayconfig.ErrRangeOverlap
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	views := make([]SlotView, 0, len(created))
	for _, s := range created {
		sc.slots[s.ID()] = s
		c.indexSlot(s.ID(), sc)
		views = append(views, NewSlotView(s))
	}
	sortViews(views)

	c.broadcastDayLocked(sc, Event{Type: EventSlotsSnapshot, Data: SlotsSnapshotPayload{
		ResourceID: rng.ResourceID(),
		Day:        rng.Day().String(),
		Slots:      views,
	}})
	return views, nil
}

// DeleteRange removes a range and its slots. Booked slots block the
// delete; held slots do not — their holds are dropped in the same step
// and holders learn of it through the slots_removed broadcast.
func (c *Coordinator) DeleteRange(ctx context.Context, rng dayconfig.Range) error {
	sc := c.getScope(rng.ResourceID(), rng.Day())
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if err := c.ensureLoadedLocked(ctx, sc); err != nil {
		return err
	}

	inScope := make([]*slot.Slot, 0, len(sc.slots))
	for _, s := range sc.slots {
		inScope = append(inScope, s)
	}
	if err := c.guard.CanDelete(rng, inScope, slot.DayOf(c.clk.Now())); err != nil {
		return err
	}

	removed, booked, err := c.ranges.DeleteRange(ctx, rng)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return dayconfig.ErrRangeNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if booked > 0 {
		// The store saw bookings the cache did not; trust the store.
		c.reloadLocked(ctx, sc)
		return &dayconfig.BookedOverlapError{Count: booked}
	}

	for _, id := range removed {
		sc.holds.Drop(id)
		delete(sc.slots, id)
		c.unindexSlot(id)
	}

	c.broadcastDayLocked(sc, Event{Type: EventSlotsRemoved, Data: SlotsRemovedPayload{
		Range: RangeView{
			ResourceID: rng.ResourceID(),
			Day:        rng.Day().String(),
			Start:      rng.Start().String(),
			End:        rng.End().String(),
		},
	}})
	return nil
}

// Disconnect tears down a session: room membership is removed and every
// hold it owns is released as if it had expired.
func (c *Coordinator) Disconnect(ctx context.Context, sess *Session) {
	topics := c.broker.Disconnect(sess)
	sess.Close()

	for _, sc := range c.allScopes() {
		sc.mu.Lock()
		for _, h := range sc.holds.ReleaseOwnedBy(sess.ID()) {
			if s, ok := sc.slots[h.SlotID]; ok && s.IsHeld() {
				if err := c.releaseSlotLocked(ctx, sc, s); err != nil {
					c.logger.Warn("failed to release hold on disconnect",
						"slot_id", h.SlotID, "session_id", sess.ID(), "error", err)
				}
			}
		}
		sc.mu.Unlock()
	}

	c.logger.Info("session disconnected", "session_id", sess.ID(), "topics", len(topics))
}

// Start runs the periodic hold sweep until Stop is called.
func (c *Coordinator) Start() {
	c.stopSweep = make(chan struct{})
	c.sweepDone = make(chan struct{})
	go func() {
		defer close(c.sweepDone)
		ticker := time.NewTicker(c.cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.SweepOnce(context.Background())
			case <-c.stopSweep:
				return
			}
		}
	}()
}

func (c *Coordinator) Stop() {
	if c.stopSweep == nil {
		return
	}
	close(c.stopSweep)
	<-c.sweepDone
	c.stopSweep = nil
}

// SweepOnce reclaims every expired hold, emitting exactly one
// slot_released per reclaimed slot.
func (c *Coordinator) SweepOnce(ctx context.Context) {
	now := c.clk.Now()
	for _, sc := range c.allScopes() {
		sc.mu.Lock()
		for _, h := range sc.holds.Sweep(now) {
			if s, ok := sc.slots[h.SlotID]; ok && s.IsHeld() {
				if err := c.releaseSlotLocked(ctx, sc, s); err != nil {
					c.logger.Warn("failed to release expired hold",
						"slot_id", h.SlotID, "error", err)
				}
			}
		}
		sc.mu.Unlock()
	}
	c.evictPastScopes(slot.DayOf(now))
}

// evictPastScopes retires cached state for days behind the clock so the
// scope map does not grow without bound. Durable rows are untouched; a
// later join reloads them from the store. A scope still carrying holds
// is left for a later tick.
func (c *Coordinator) evictPastScopes(today slot.Day) {
	for _, sc := range c.allScopes() {
		if !sc.day.Before(today) {
			continue
		}
		sc.mu.Lock()
		if !sc.holds.Empty() {
			sc.mu.Unlock()
			continue
		}
		for id := range sc.slots {
			c.unindexSlot(id)
		}
		sc.slots = make(map[uuid.UUID]*slot.Slot)
		sc.loaded = false
		sc.mu.Unlock()

		c.mu.Lock()
		delete(c.scopes, scopeKey{resourceID: sc.resourceID, day: sc.day.String()})
		c.mu.Unlock()
	}
}

// --- internal ---

func (c *Coordinator) getScope(resourceID uuid.UUID, day slot.Day) *scope {
	key := scopeKey{resourceID: resourceID, day: day.String()}
	c.mu.Lock()
	defer c.mu.Unlock()
	sc, ok := c.scopes[key]
	if !ok {
		sc = &scope{
			resourceID: resourceID,
			day:        day,
			slots:      make(map[uuid.UUID]*slot.Slot),
			holds:      NewHoldRegistry(c.clk),
		}
		c.scopes[key] = sc
	}
	return sc
}

func (c *Coordinator) scopeForSlot(slotID uuid.UUID) (*scope, error) {
	c.mu.Lock()
	key, ok := c.slotScopes[slotID]
	sc := c.scopes[key]
	c.mu.Unlock()
	if !ok || sc == nil {
		return nil, errs.ErrSlotNotFound
	}
	return sc, nil
}

func (c *Coordinator) allScopes() []*scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	scopes := make([]*scope, 0, len(c.scopes))
	for _, sc := range c.scopes {
		scopes = append(scopes, sc)
	}
	return scopes
}

func (c *Coordinator) indexSlot(slotID uuid.UUID, sc *scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slotScopes[slotID] = scopeKey{resourceID: sc.resourceID, day: sc.day.String()}
}

func (c *Coordinator) unindexSlot(slotID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slotScopes, slotID)
}

func (c *Coordinator) ensureLoadedLocked(ctx context.Context, sc *scope) error {
	if sc.loaded {
		return nil
	}
	return c.reloadLocked(ctx, sc)
}

func (c *Coordinator) reloadLocked(ctx context.Context, sc *scope) error {
	slots, err := c.slots.Snapshot(ctx, sc.resourceID, sc.day)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	for id := range sc.slots {
		c.unindexSlot(id)
	}
	sc.slots = make(map[uuid.UUID]*slot.Slot, len(slots))
	for _, s := range slots {
		sc.slots[s.ID()] = s
		c.indexSlot(s.ID(), sc)
	}
	sc.loaded = true
	return nil
}

func (c *Coordinator) snapshotLocked(sc *scope) SlotsSnapshotPayload {
	views := make([]SlotView, 0, len(sc.slots))
	for _, s := range sc.slots {
		// Report a lapsed hold as free even if the sweep has not run.
		if s.IsHeld() {
			if _, ok := sc.holds.Get(s.ID()); !ok {
				v := NewSlotView(s)
				v.State = slot.StateFree
				v.Holder = nil
				v.ExpiresAt = nil
				views = append(views, v)
				continue
			}
		}
		views = append(views, NewSlotView(s))
	}
	sortViews(views)
	return SlotsSnapshotPayload{
		ResourceID: sc.resourceID,
		Day:        sc.day.String(),
		Slots:      views,
	}
}

// lazyExpireLocked reclaims a slot whose hold lapsed between sweeps, so
// an expired hold never wins a race against a fresh attempt.
func (c *Coordinator) lazyExpireLocked(ctx context.Context, sc *scope, s *slot.Slot) {
	if !s.IsHeld() {
		return
	}
	if _, ok := sc.holds.Get(s.ID()); ok {
		return
	}
	if err := c.releaseSlotLocked(ctx, sc, s); err != nil {
		c.logger.Warn("failed to reclaim lapsed hold", "slot_id", s.ID(), "error", err)
	}
}

func (c *Coordinator) releaseSlotLocked(ctx context.Context, sc *scope, s *slot.Slot) error {
	if err := c.slots.Transition(ctx, s.ID(), slot.StateHeld, slot.StateFree, nil, nil, nil, s.Version()); err != nil {
		return c.storeErrLocked(ctx, sc, err, "release")
	}
	if err := s.Release(); err != nil {
		c.reloadLocked(ctx, sc)
		return errs.Mark(err, errs.ErrSlotConflict)
	}

	ev := Event{Type: EventSlotReleased, Data: SlotReleasedPayload{SlotID: s.ID()}}
	c.broadcastDayLocked(sc, ev)
	c.broadcastDrops(sc.resourceID, ev)
	return nil
}

// storeErrLocked maps store failures and resyncs the cache on an
// optimistic conflict, which means an out-of-band writer touched a row
// this scope thought it owned.
func (c *Coordinator) storeErrLocked(ctx context.Context, sc *scope, err error, op string) error {
	if infra.IsKind(err, infra.KindConflict) {
		c.logger.Warn("slot version conflict, resyncing scope",
			"resource_id", sc.resourceID, "day", sc.day.String(), "op", op)
		if reloadErr := c.reloadLocked(ctx, sc); reloadErr != nil {
			c.logger.Error("failed to resync scope after conflict", "error", reloadErr)
		}
		return errs.Mark(err, errs.ErrSlotConflict)
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrSlotNotFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

// broadcastDayLocked fans an event out to the scope's day room.
// Overflowed sessions were already closed by TrySend; their transports
// observe the closed channel and run the normal disconnect path, so the
// serialization point never blocks on a slow subscriber.
func (c *Coordinator) broadcastDayLocked(sc *scope, ev Event) {
	res := c.broker.Broadcast(DayTopic(sc.resourceID, sc.day), ev)
	for _, dropped := range res.Dropped {
		c.logger.Warn("session outbound queue overflow, disconnecting",
			"session_id", dropped.ID(), "event", string(ev.Type))
	}
}

func (c *Coordinator) broadcastDrops(resourceID uuid.UUID, ev Event) {
	res := c.broker.Broadcast(DropsTopic(resourceID), ev)
	for _, dropped := range res.Dropped {
		c.logger.Warn("session outbound queue overflow, disconnecting",
			"session_id", dropped.ID(), "event", string(ev.Type))
	}
}

func sortViews(views []SlotView) {
	sort.Slice(views, func(i, j int) bool {
		return views[i].Start < views[j].Start
	})
}
