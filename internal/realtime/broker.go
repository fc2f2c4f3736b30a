package realtime

import (
	"fmt"
	"sync"

	"slotboard/internal/domain/slot"

	"github.com/google/uuid"
)

// Topic names. Day topics carry slot lifecycle events for one
// (resource, day) scope; drops topics carry slots returning to free
// across all days of a resource.
func DayTopic(resourceID uuid.UUID, day slot.Day) string {
	return fmt.Sprintf("day:%s:%s", resourceID, day)
}

func DropsTopic(resourceID uuid.UUID) string {
	return fmt.Sprintf("drops:%s", resourceID)
}

// BroadcastResult reports delivery and backpressure per broadcast.
type BroadcastResult struct {
	Delivered int
	Dropped   []*Session
}

// Broker maintains explicit room membership keyed by (topic, session)
// and fans events out to member queues. Membership is rebuilt purely
// from join/leave/disconnect calls, never inferred.
type Broker struct {
	mu       sync.RWMutex
	rooms    map[string]map[uuid.UUID]*Session
	sessions map[uuid.UUID]*Session
	topics   map[uuid.UUID]map[string]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		rooms:    make(map[string]map[uuid.UUID]*Session),
		sessions: make(map[uuid.UUID]*Session),
		topics:   make(map[uuid.UUID]map[string]struct{}),
	}
}

func (b *Broker) Join(sess *Session, topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room, ok := b.rooms[topic]
	if !ok {
		room = make(map[uuid.UUID]*Session)
		b.rooms[topic] = room
	}
	room[sess.ID()] = sess
	b.sessions[sess.ID()] = sess

	set, ok := b.topics[sess.ID()]
	if !ok {
		set = make(map[string]struct{})
		b.topics[sess.ID()] = set
	}
	set[topic] = struct{}{}
}

func (b *Broker) Leave(sess *Session, topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaveLocked(sess.ID(), topic)
}

func (b *Broker) leaveLocked(sessID uuid.UUID, topic string) {
	if room, ok := b.rooms[topic]; ok {
		delete(room, sessID)
		if len(room) == 0 {
			delete(b.rooms, topic)
		}
	}
	if set, ok := b.topics[sessID]; ok {
		delete(set, topic)
	}
}

// Broadcast delivers to every member of the topic, sender included, so
// clients stay consistent without special-casing their own actions.
// Sessions that overflow are reported back for disconnect handling.
func (b *Broker) Broadcast(topic string, ev Event) BroadcastResult {
	b.mu.RLock()
	members := make([]*Session, 0, len(b.rooms[topic]))
	for _, sess := range b.rooms[topic] {
		members = append(members, sess)
	}
	b.mu.RUnlock()

	var res BroadcastResult
	for _, sess := range members {
		if sess.TrySend(ev) {
			res.Delivered++
		} else {
			res.Dropped = append(res.Dropped, sess)
		}
	}
	return res
}

// Disconnect removes the session from every topic and returns the set
// it was in, so the coordinator can react (release holds, log).
func (b *Broker) Disconnect(sess *Session) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.topics[sess.ID()]
	topics := make([]string, 0, len(set))
	for topic := range set {
		topics = append(topics, topic)
		if room, ok := b.rooms[topic]; ok {
			delete(room, sess.ID())
			if len(room) == 0 {
				delete(b.rooms, topic)
			}
		}
	}
	delete(b.topics, sess.ID())
	delete(b.sessions, sess.ID())
	return topics
}

// Session resolves a live session by id; nil if unknown or gone.
func (b *Broker) Session(id uuid.UUID) *Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sessions[id]
}

// Register makes a session resolvable before it joins any room.
func (b *Broker) Register(sess *Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[sess.ID()] = sess
}

func (b *Broker) MemberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.rooms[topic])
}
