package realtime

import (
	"sync"

	"slotboard/internal/domain/user"

	"github.com/google/uuid"
)

// Session is one connected client's view of the engine: an identity
// plus a bounded outbound queue. Delivery is fire-and-forget; a session
// whose queue overflows is closed instead of stalling the scope that is
// broadcasting to it. The transport layer drains Events and tears the
// session down when the channel closes.
type Session struct {
	id     uuid.UUID
	userID uuid.UUID
	role   user.Role

	mu     sync.Mutex
	out    chan Event
	closed bool
}

func NewSession(userID uuid.UUID, role user.Role, queueSize int) *Session {
	return &Session{
		id:     uuid.New(),
		userID: userID,
		role:   role,
		out:    make(chan Event, queueSize),
	}
}

func (s *Session) ID() uuid.UUID     { return s.id }
func (s *Session) UserID() uuid.UUID { return s.userID }
func (s *Session) Role() user.Role   { return s.role }

// Events is the channel the transport drains. It is closed when the
// session is closed, from either side.
func (s *Session) Events() <-chan Event {
	return s.out
}

// TrySend enqueues without blocking. On overflow the session is closed
// and false is returned; the caller treats that as a disconnect.
func (s *Session) TrySend(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- ev:
		return true
	default:
		s.closed = true
		close(s.out)
		return false
	}
}

// Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
