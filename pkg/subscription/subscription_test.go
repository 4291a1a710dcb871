package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mpd-protocol/mpd-go/pkg/wire"
)

func next(t *testing.T, sub *Subscription) Notification {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	n, err := sub.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	return n
}

func TestSubscriberReceivesEveryNotification(t *testing.T) {
	m := NewManager(0)
	sub := m.Subscribe()

	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})
	m.Publish([]wire.Subsystem{wire.SubsystemMixer, wire.SubsystemQueue})
	m.Publish([]wire.Subsystem{wire.SubsystemDatabase})

	want := [][]wire.Subsystem{
		{wire.SubsystemPlayer},
		{wire.SubsystemMixer, wire.SubsystemQueue},
		{wire.SubsystemDatabase},
	}
	for i, w := range want {
		n := next(t, sub)
		if n.Missed != 0 {
			t.Errorf("notification %d: Missed = %d", i, n.Missed)
		}
		if len(n.Changed) != len(w) {
			t.Fatalf("notification %d: Changed = %v", i, n.Changed)
		}
		for j := range w {
			if n.Changed[j] != w[j] {
				t.Errorf("notification %d: Changed[%d] = %q, want %q", i, j, n.Changed[j], w[j])
			}
		}
	}
}

func TestSubscribersAreIndependent(t *testing.T) {
	m := NewManager(0)
	early := m.Subscribe()

	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})

	late := m.Subscribe()
	m.Publish([]wire.Subsystem{wire.SubsystemMixer})

	if n := next(t, early); n.Changed[0] != wire.SubsystemPlayer {
		t.Errorf("early subscriber first notification = %v", n.Changed)
	}
	if n := next(t, early); n.Changed[0] != wire.SubsystemMixer {
		t.Errorf("early subscriber second notification = %v", n.Changed)
	}

	// The late subscriber only sees what was published after it subscribed.
	if n := next(t, late); n.Changed[0] != wire.SubsystemMixer {
		t.Errorf("late subscriber notification = %v", n.Changed)
	}
	if late.Pending() != 0 {
		t.Errorf("late subscriber has %d pending", late.Pending())
	}
}

func TestOverflowDropsOldestAndSignalsGap(t *testing.T) {
	m := NewManager(2)
	sub := m.Subscribe()

	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})
	m.Publish([]wire.Subsystem{wire.SubsystemMixer})
	m.Publish([]wire.Subsystem{wire.SubsystemQueue})    // drops player
	m.Publish([]wire.Subsystem{wire.SubsystemDatabase}) // drops mixer

	n := next(t, sub)
	if n.Changed[0] != wire.SubsystemQueue {
		t.Errorf("first delivered = %v, want queue", n.Changed)
	}
	if n.Missed != 2 {
		t.Errorf("Missed = %d, want 2", n.Missed)
	}

	n = next(t, sub)
	if n.Changed[0] != wire.SubsystemDatabase {
		t.Errorf("second delivered = %v, want database", n.Changed)
	}
	if n.Missed != 0 {
		t.Errorf("Missed = %d, want 0", n.Missed)
	}
}

func TestOverflowWithBufferOfOne(t *testing.T) {
	m := NewManager(1)
	sub := m.Subscribe()

	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})
	m.Publish([]wire.Subsystem{wire.SubsystemMixer})

	n := next(t, sub)
	if n.Changed[0] != wire.SubsystemMixer || n.Missed != 1 {
		t.Errorf("delivered %v with Missed = %d", n.Changed, n.Missed)
	}
}

func TestPublishNeverBlocksOnStuckSubscriber(t *testing.T) {
	m := NewManager(1)
	_ = m.Subscribe() // never reads

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			m.Publish([]wire.Subsystem{wire.SubsystemPlayer})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Publish blocked on a stuck subscriber")
	}
}

func TestManagerCloseEndsStreams(t *testing.T) {
	m := NewManager(0)
	sub := m.Subscribe()

	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})
	m.Close()
	m.Close() // idempotent

	// Buffered notification drains first, then the stream ends cleanly.
	if n := next(t, sub); n.Changed[0] != wire.SubsystemPlayer {
		t.Errorf("buffered notification = %v", n.Changed)
	}
	_, err := sub.Next(context.Background())
	if !errors.Is(err, ErrSubscriptionEnded) {
		t.Errorf("expected ErrSubscriptionEnded, got %v", err)
	}

	// Subscribing after close yields an already-ended stream.
	late := m.Subscribe()
	_, err = late.Next(context.Background())
	if !errors.Is(err, ErrSubscriptionEnded) {
		t.Errorf("expected ErrSubscriptionEnded, got %v", err)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	m := NewManager(0)
	sub := m.Subscribe()
	other := m.Subscribe()

	sub.Close()
	sub.Close() // idempotent
	m.Publish([]wire.Subsystem{wire.SubsystemPlayer})

	if sub.Pending() != 0 {
		t.Errorf("closed subscriber buffered %d notifications", sub.Pending())
	}
	if m.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount = %d, want 1", m.SubscriberCount())
	}
	if n := next(t, other); n.Changed[0] != wire.SubsystemPlayer {
		t.Errorf("remaining subscriber notification = %v", n.Changed)
	}
}

func TestNextHonorsContext(t *testing.T) {
	m := NewManager(0)
	sub := m.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := sub.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestNextUnblocksOnPublish(t *testing.T) {
	m := NewManager(0)
	sub := m.Subscribe()

	got := make(chan Notification, 1)
	go func() {
		n, err := sub.Next(context.Background())
		if err == nil {
			got <- n
		}
	}()

	time.Sleep(10 * time.Millisecond)
	m.Publish([]wire.Subsystem{wire.SubsystemOptions})

	select {
	case n := <-got:
		if n.Changed[0] != wire.SubsystemOptions {
			t.Errorf("notification = %v", n.Changed)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not unblock on publish")
	}
}
