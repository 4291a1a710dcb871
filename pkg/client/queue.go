package client

import "github.com/mpd-protocol/mpd-go/pkg/wire"

// result is the outcome delivered for one queued command.
type result struct {
	response *wire.Response
	err      error
}

// request pairs a queued command with its reply slot.
type request struct {
	cmd  wire.Sendable
	resp chan result
}

func newRequest(cmd wire.Sendable) request {
	// Buffered so a fulfilled result never blocks the engine, even when
	// the caller has abandoned the request.
	return request{cmd: cmd, resp: make(chan result, 1)}
}

// fulfill delivers the result. A slot is fulfilled at most once; the
// non-blocking send guards against double delivery during teardown.
func (r request) fulfill(res result) {
	select {
	case r.resp <- res:
	default:
	}
}
