package client

// Phase is the lifecycle phase of the connection engine.
type Phase uint8

const (
	// PhaseIdle means an idle command is outstanding and the engine is
	// waiting for state-change notifications.
	PhaseIdle Phase = iota
	// PhaseInterrupting means noidle has been sent and the engine is
	// waiting for the idle reply before transmitting a queued command.
	PhaseInterrupting
	// PhaseActive means a command has been transmitted and the engine is
	// waiting for its reply.
	PhaseActive
	// PhaseDisconnected means the connection has been torn down.
	PhaseDisconnected
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseInterrupting:
		return "INTERRUPTING"
	case PhaseActive:
		return "ACTIVE"
	case PhaseDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}
