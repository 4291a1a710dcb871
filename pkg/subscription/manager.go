package subscription

import (
	"sync"
	"time"

	"github.com/mpd-protocol/mpd-go/pkg/wire"
)

// DefaultBufferSize is the per-subscriber notification buffer capacity.
const DefaultBufferSize = 32

// Notification reports the subsystems one idle reply marked as changed.
type Notification struct {
	// Changed lists the changed subsystems, in wire order.
	Changed []wire.Subsystem

	// Missed counts notifications dropped before this one because the
	// subscriber's buffer overflowed. Zero means no gap.
	Missed int

	// Timestamp is when the notification was received from the server.
	Timestamp time.Time
}

// Manager owns the set of subscribers and fans notifications out to them.
// Publish and Close are called by the connection actor; Subscribe may be
// called from any goroutine.
type Manager struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	bufSize int
	closed  bool
}

// NewManager creates a manager. bufferSize is each subscriber's buffer
// capacity; values < 1 select DefaultBufferSize.
func NewManager(bufferSize int) *Manager {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Manager{
		subs:    make(map[uint64]*Subscription),
		bufSize: bufferSize,
	}
}

// Subscribe registers a new independent subscriber. It receives every
// notification published after this call. If the manager is already closed,
// the subscription is returned in the ended state.
func (m *Manager) Subscribe() *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s := newSubscription(m, m.nextID, m.bufSize)
	if m.closed {
		s.end()
		return s
	}
	m.subs[s.id] = s
	return s
}

// Publish delivers a changed-subsystem set to every subscriber. It never
// blocks: subscribers that cannot keep up lose their oldest buffered
// notification instead.
func (m *Manager) Publish(changed []wire.Subsystem) {
	if len(changed) == 0 {
		return
	}
	n := Notification{Changed: changed, Timestamp: time.Now()}

	m.mu.Lock()
	subs := make([]*Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s.publish(n)
	}
}

// Close ends every subscriber stream. Buffered notifications remain readable;
// once a subscriber drains its buffer, Next returns ErrSubscriptionEnded.
// Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	subs := make([]*Subscription, 0, len(m.subs))
	for _, s := range m.subs {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	for _, s := range subs {
		s.end()
	}
}

// SubscriberCount returns the number of live subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// remove unregisters a subscriber. Called from Subscription.Close.
func (m *Manager) remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs, id)
}
