package client

import "errors"

// Client errors.
var (
	// ErrClientClosed is returned for commands sent after the connection
	// has been torn down, and for commands that were still outstanding
	// when it was. When the teardown was caused by a connection or
	// protocol failure the returned error wraps both ErrClientClosed and
	// the cause.
	ErrClientClosed = errors.New("client is closed")
)
