package log

// Logger receives the protocol events a connection emits. Implementations
// must be safe for concurrent use and should return quickly; the engine
// calls Log inline.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards every event. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
