package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp:    time.Now(),
		ConnectionID: "test-conn",
		Direction:    DirectionOut,
		Category:     CategoryCommand,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with command payload
	event.Command = &CommandEvent{Command: "status"}
	logger.Log(event)

	// Test with response payload
	event.Command = nil
	event.Response = &ResponseEvent{Frames: 1, Fields: 3}
	logger.Log(event)

	// Test with notification payload
	event.Response = nil
	event.Notification = &NotificationEvent{Subsystems: []string{"player"}}
	logger.Log(event)

	// Test with phase change payload
	event.Notification = nil
	event.PhaseChange = &PhaseChangeEvent{OldPhase: "IDLE", NewPhase: "ACTIVE"}
	logger.Log(event)

	// Test with error payload
	event.PhaseChange = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}
