package client

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mpd-protocol/mpd-go/pkg/log"
	"github.com/mpd-protocol/mpd-go/pkg/subscription"
	"github.com/mpd-protocol/mpd-go/pkg/wire"
)

// DefaultSendQueueDepth is the default number of commands that may be
// queued ahead of the engine before Send blocks.
const DefaultSendQueueDepth = 2

// Config holds client options. The zero value selects defaults.
type Config struct {
	// Logger receives protocol events. Nil disables logging.
	Logger log.Logger

	// SendQueueDepth is the number of commands that may be queued ahead
	// of the engine before Send blocks. Values below 1 select the
	// default.
	SendQueueDepth int

	// NotificationBuffer is the per-subscriber notification buffer
	// size. When a subscriber falls behind, the oldest buffered
	// notification is dropped and the gap is reported on the next one
	// delivered. Values below 1 select the default.
	NotificationBuffer int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		SendQueueDepth:     DefaultSendQueueDepth,
		NotificationBuffer: subscription.DefaultBufferSize,
	}
}

// Client is a handle to one protocol connection. All methods are safe
// for concurrent use; a single Client may be shared freely across
// goroutines.
//
// The connection multiplexes commands and notifications: while no
// command is outstanding the engine keeps an idle command active so the
// server can push state changes, and queued commands transparently
// interrupt and restore that wait. Command replies are paired with
// commands strictly in submission order.
type Client struct {
	requests chan request

	stop     chan struct{}
	stopOnce sync.Once

	// done is closed by the engine on disconnect, after closeErr is set.
	done     chan struct{}
	closeErr error

	connected atomic.Bool

	events  *subscription.Manager
	logger  log.Logger
	version string
	connID  string
}

// Connect establishes a client over an existing connection. It reads
// the server greeting and starts the connection engine. On error the
// connection is closed.
func Connect(conn io.ReadWriteCloser, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	depth := cfg.SendQueueDepth
	if depth < 1 {
		depth = DefaultSendQueueDepth
	}

	codec := wire.NewCodec(conn)
	version, err := codec.ReadGreeting()
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &Client{
		requests: make(chan request, depth),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		events:   subscription.NewManager(cfg.NotificationBuffer),
		logger:   logger,
		version:  version,
		connID:   uuid.NewString(),
	}
	a := &actor{
		client: c,
		codec:  codec,
		conn:   conn,
		frames: make(chan readResult, 1),
		phase:  PhaseIdle,
	}

	// Enter the notification wait before handing the connection to the
	// engine, so a state change can never slip past unobserved.
	if err := a.write(idleCommand); err != nil {
		conn.Close()
		return nil, err
	}
	c.connected.Store(true)

	go a.run()
	return c, nil
}

// Dial connects to an MPD server at the given address and establishes a
// client over the connection.
func Dial(ctx context.Context, network, addr string, cfg *Config) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	return Connect(conn, cfg)
}

// Send submits a single command and waits for its reply.
//
// A server rejection is returned as *wire.CommandError and does not
// affect the connection. If ctx expires while the command is queued or
// in flight the command is not withdrawn: it is still transmitted in
// order and its reply is discarded.
func (c *Client) Send(ctx context.Context, cmd wire.Command) (*wire.Frame, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.exchange(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return resp.SingleFrame()
}

// SendList submits a command list and waits for its reply. One frame is
// returned per succeeded command. If a command in the list fails, the
// frames of the commands before it are returned together with the
// *wire.CommandError describing the failure.
func (c *Client) SendList(ctx context.Context, list wire.CommandList) ([]*wire.Frame, error) {
	if err := list.Validate(); err != nil {
		return nil, err
	}
	resp, err := c.exchange(ctx, list)
	if err != nil {
		return nil, err
	}
	if cmdErr := resp.Err(); cmdErr != nil {
		return resp.Frames(), cmdErr
	}
	return resp.Frames(), nil
}

// exchange queues a command and waits for the engine to answer it.
func (c *Client) exchange(ctx context.Context, cmd wire.Sendable) (*wire.Response, error) {
	req := newRequest(cmd)

	select {
	case c.requests <- req:
	case <-c.done:
		return nil, c.closeErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-req.resp:
		return res.response, res.err
	case <-c.done:
		// The engine may have answered before shutting down.
		select {
		case res := <-req.resp:
			return res.response, res.err
		default:
			return nil, c.closeErr
		}
	case <-ctx.Done():
		// Abandoned: the queued command is still transmitted in order;
		// its eventual result lands in the buffered slot.
		return nil, ctx.Err()
	}
}

// Subscribe returns a stream of state-change notifications. Each
// subscriber receives every notification from the time of subscription,
// subject to its buffer; the stream ends cleanly when the connection is
// lost or closed. Close the subscription when done with it.
func (c *Client) Subscribe() *subscription.Subscription {
	return c.events.Subscribe()
}

// IsConnected reports whether the connection is still up.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// ProtocolVersion returns the version the server announced in its
// greeting.
func (c *Client) ProtocolVersion() string {
	return c.version
}

// Close tears down the connection and waits for the engine to finish.
// Outstanding commands fail with ErrClientClosed and notification
// streams end. Close is idempotent.
func (c *Client) Close() error {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
	return nil
}

// Done returns a channel that is closed once the connection has been
// torn down, whether by Close or by failure.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
