// Package subscription fans out server state-change notifications to any
// number of independent subscribers.
//
// The connection actor publishes one Notification per idle reply; every live
// subscriber receives every notification published after it subscribed.
// Delivery is decoupled from the publisher: each subscriber has its own
// bounded buffer, and a slow subscriber never blocks Publish. When a buffer
// overflows, the oldest notification is dropped and the next one delivered
// carries a Missed count, so consumers can detect the gap.
//
// Subscriber streams end cleanly when the connection terminates: buffered
// notifications drain, then Next returns ErrSubscriptionEnded. This is an
// expected part of connection loss, not a failure.
//
//	sub := client.Subscribe()
//	defer sub.Close()
//
//	for {
//	    n, err := sub.Next(ctx)
//	    if err != nil {
//	        break // ended or ctx done
//	    }
//	    handle(n.Changed)
//	}
package subscription
