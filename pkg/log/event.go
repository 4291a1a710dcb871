package log

import "time"

// Event is one protocol event captured by the client engine.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Command      *CommandEvent      `cbor:"5,keyasint,omitempty"` // Outbound command
	Response     *ResponseEvent     `cbor:"6,keyasint,omitempty"` // Inbound response
	Notification *NotificationEvent `cbor:"7,keyasint,omitempty"` // Idle state change
	PhaseChange  *PhaseChangeEvent  `cbor:"8,keyasint,omitempty"` // Engine phase transition
	Error        *ErrorEventData    `cbor:"9,keyasint,omitempty"` // Connection failures
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an inbound message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outbound message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates an outbound command or command list.
	CategoryCommand Category = 0
	// CategoryResponse indicates an inbound command response.
	CategoryResponse Category = 1
	// CategoryNotification indicates a state change received while idling.
	CategoryNotification Category = 2
	// CategoryPhase indicates an engine phase transition.
	CategoryPhase Category = 3
	// CategoryError indicates a connection-level failure.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryResponse:
		return "RESPONSE"
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryPhase:
		return "PHASE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures an outbound command.
type CommandEvent struct {
	// Command is the command word ("status", "noidle", ...).
	// For command lists, the first command's word.
	Command string `cbor:"1,keyasint"`

	// ListLen is the number of commands when a command list was sent.
	// Zero for single commands.
	ListLen int `cbor:"2,keyasint,omitempty"`
}

// ResponseEvent captures an inbound command response.
type ResponseEvent struct {
	// Frames is the number of frames in the response.
	Frames int `cbor:"1,keyasint"`

	// Fields is the total field count across all frames.
	Fields int `cbor:"2,keyasint,omitempty"`

	// BinaryBytes is the total binary payload size across all frames.
	BinaryBytes int `cbor:"3,keyasint,omitempty"`

	// CommandError is the server's error message, if the command failed.
	CommandError string `cbor:"4,keyasint,omitempty"`
}

// NotificationEvent captures a state-change notification.
type NotificationEvent struct {
	// Subsystems are the changed subsystem names.
	Subsystems []string `cbor:"1,keyasint"`
}

// PhaseChangeEvent captures an engine phase transition.
type PhaseChangeEvent struct {
	// OldPhase is the phase before the transition.
	OldPhase string `cbor:"1,keyasint"`

	// NewPhase is the phase after the transition.
	NewPhase string `cbor:"2,keyasint"`

	// Reason for the transition (if noteworthy).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures a connection-level failure.
type ErrorEventData struct {
	// Message is the error text.
	Message string `cbor:"1,keyasint"`

	// Context describes what the engine was doing when the error occurred.
	Context string `cbor:"2,keyasint,omitempty"`
}
