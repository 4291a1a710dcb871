// Package client implements the MPD client connection engine.
//
// # Architecture
//
// A Client multiplexes two kinds of traffic over one connection:
// request/reply command exchanges and server-pushed state-change
// notifications. MPD only pushes notifications while an idle command is
// outstanding, so the engine keeps the connection parked in idle
// whenever no command is in flight:
//
//	            Send/SendList                Subscribe
//	                 |                           ^
//	                 v                           |
//	          +-------------+    publish   +-----------+
//	          |   engine    | -----------> |  fan-out  |
//	          | (one        |              | (bounded  |
//	          |  goroutine) |              |  buffers) |
//	          +-------------+              +-----------+
//	             |       ^
//	       write |       | read (decoder goroutine)
//	             v       |
//	          +-------------+
//	          |  connection |
//	          +-------------+
//
// # Phases
//
// The engine cycles through three phases while connected:
//
//	IDLE          -- idle outstanding, waiting for notifications
//	INTERRUPTING  -- noidle sent, waiting for the idle reply
//	ACTIVE        -- a command sent, waiting for its reply
//
// A command submitted during IDLE triggers a single noidle; commands
// submitted during INTERRUPTING or ACTIVE simply queue. Replies are
// paired with commands strictly in submission order. On any transport
// or protocol failure the engine moves to DISCONNECTED, fails all
// outstanding commands and ends all notification streams.
//
// # Usage
//
//	c, err := client.Dial(ctx, "tcp", "localhost:6600", nil)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	sub := c.Subscribe()
//	defer sub.Close()
//
//	frame, err := c.Send(ctx, wire.NewCommand("status"))
package client
