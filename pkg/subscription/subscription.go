package subscription

import (
	"context"
	"errors"
	"sync"
)

// ErrSubscriptionEnded is returned by Next once the stream has ended and all
// buffered notifications have been consumed. The stream ends when the
// connection terminates or the subscription is closed; neither is a failure.
var ErrSubscriptionEnded = errors.New("subscription ended")

// Subscription is one independent cursor into the notification stream.
//
// Next must not be called from more than one goroutine at a time; create one
// subscription per consumer instead, they are cheap.
type Subscription struct {
	manager *Manager
	id      uint64

	mu    sync.Mutex
	buf   []Notification
	size  int
	ended bool
	wake  chan struct{}
}

func newSubscription(m *Manager, id uint64, bufSize int) *Subscription {
	return &Subscription{
		manager: m,
		id:      id,
		size:    bufSize,
		wake:    make(chan struct{}, 1),
	}
}

// publish buffers a notification for this subscriber. On overflow the oldest
// buffered notification is dropped and its gap is carried forward on the
// notification that now follows it.
func (s *Subscription) publish(n Notification) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}

	if len(s.buf) >= s.size {
		dropped := s.buf[0]
		s.buf = s.buf[1:]
		gap := dropped.Missed + 1
		if len(s.buf) > 0 {
			s.buf[0].Missed += gap
		} else {
			n.Missed += gap
		}
	}
	s.buf = append(s.buf, n)
	s.mu.Unlock()

	s.signal()
}

// Next returns the next notification. It blocks until one is available, the
// context is done, or the stream has ended and the buffer is drained, in
// which case it returns ErrSubscriptionEnded.
func (s *Subscription) Next(ctx context.Context) (Notification, error) {
	for {
		s.mu.Lock()
		if len(s.buf) > 0 {
			n := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			return n, nil
		}
		ended := s.ended
		s.mu.Unlock()

		if ended {
			return Notification{}, ErrSubscriptionEnded
		}

		select {
		case <-ctx.Done():
			return Notification{}, ctx.Err()
		case <-s.wake:
		}
	}
}

// Pending returns the number of buffered notifications.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Close drops the subscription. Notification delivery stops immediately and
// the manager forgets the subscriber; already-buffered notifications remain
// readable. Close is idempotent.
func (s *Subscription) Close() {
	s.manager.remove(s.id)
	s.end()
}

// end marks the stream as ended and wakes a blocked Next.
func (s *Subscription) end() {
	s.mu.Lock()
	already := s.ended
	s.ended = true
	s.mu.Unlock()

	if !already {
		s.signal()
	}
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
