package log

import (
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-def6-7890-abcd-ef1234567890",
		Direction:    DirectionOut,
		Category:     CategoryCommand,
		Command: &CommandEvent{
			Command: "status",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.ConnectionID != original.ConnectionID {
		t.Errorf("ConnectionID: got %q, want %q", decoded.ConnectionID, original.ConnectionID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Command == nil {
		t.Fatal("Command is nil")
	}
	if decoded.Command.Command != original.Command.Command {
		t.Errorf("Command.Command: got %q, want %q", decoded.Command.Command, original.Command.Command)
	}
}

func TestCommandEventCBORRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cmd  *CommandEvent
	}{
		{
			name: "single",
			cmd:  &CommandEvent{Command: "currentsong"},
		},
		{
			name: "list",
			cmd:  &CommandEvent{Command: "play", ListLen: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Event{
				Timestamp:    time.Now(),
				ConnectionID: "conn-123",
				Direction:    DirectionOut,
				Category:     CategoryCommand,
				Command:      tt.cmd,
			}

			data, err := EncodeEvent(original)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.Command == nil {
				t.Fatal("Command is nil")
			}
			if decoded.Command.Command != tt.cmd.Command {
				t.Errorf("Command: got %q, want %q", decoded.Command.Command, tt.cmd.Command)
			}
			if decoded.Command.ListLen != tt.cmd.ListLen {
				t.Errorf("ListLen: got %d, want %d", decoded.Command.ListLen, tt.cmd.ListLen)
			}
		})
	}
}

func TestResponseEventCBORRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		resp *ResponseEvent
	}{
		{
			name: "ok",
			resp: &ResponseEvent{Frames: 1, Fields: 12},
		},
		{
			name: "binary",
			resp: &ResponseEvent{Frames: 1, Fields: 3, BinaryBytes: 4096},
		},
		{
			name: "error",
			resp: &ResponseEvent{Frames: 0, CommandError: "No such song"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := Event{
				Timestamp:    time.Now(),
				ConnectionID: "conn-123",
				Direction:    DirectionIn,
				Category:     CategoryResponse,
				Response:     tt.resp,
			}

			data, err := EncodeEvent(original)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.Response == nil {
				t.Fatal("Response is nil")
			}
			if decoded.Response.Frames != tt.resp.Frames {
				t.Errorf("Frames: got %d, want %d", decoded.Response.Frames, tt.resp.Frames)
			}
			if decoded.Response.Fields != tt.resp.Fields {
				t.Errorf("Fields: got %d, want %d", decoded.Response.Fields, tt.resp.Fields)
			}
			if decoded.Response.BinaryBytes != tt.resp.BinaryBytes {
				t.Errorf("BinaryBytes: got %d, want %d", decoded.Response.BinaryBytes, tt.resp.BinaryBytes)
			}
			if decoded.Response.CommandError != tt.resp.CommandError {
				t.Errorf("CommandError: got %q, want %q", decoded.Response.CommandError, tt.resp.CommandError)
			}
		})
	}
}

func TestNotificationEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategoryNotification,
		Notification: &NotificationEvent{
			Subsystems: []string{"player", "mixer"},
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Notification == nil {
		t.Fatal("Notification is nil")
	}
	if len(decoded.Notification.Subsystems) != 2 {
		t.Fatalf("Subsystems: got %d entries, want 2", len(decoded.Notification.Subsystems))
	}
	if decoded.Notification.Subsystems[0] != "player" || decoded.Notification.Subsystems[1] != "mixer" {
		t.Errorf("Subsystems: got %v, want [player mixer]", decoded.Notification.Subsystems)
	}
}

func TestPhaseChangeEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategoryPhase,
		PhaseChange: &PhaseChangeEvent{
			OldPhase: "IDLE",
			NewPhase: "INTERRUPTING",
			Reason:   "command queued",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.PhaseChange == nil {
		t.Fatal("PhaseChange is nil")
	}
	if decoded.PhaseChange.OldPhase != original.PhaseChange.OldPhase {
		t.Errorf("OldPhase: got %q, want %q", decoded.PhaseChange.OldPhase, original.PhaseChange.OldPhase)
	}
	if decoded.PhaseChange.NewPhase != original.PhaseChange.NewPhase {
		t.Errorf("NewPhase: got %q, want %q", decoded.PhaseChange.NewPhase, original.PhaseChange.NewPhase)
	}
	if decoded.PhaseChange.Reason != original.PhaseChange.Reason {
		t.Errorf("Reason: got %q, want %q", decoded.PhaseChange.Reason, original.PhaseChange.Reason)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategoryError,
		Error: &ErrorEventData{
			Message: "connection reset by peer",
			Context: "read response",
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Error == nil {
		t.Fatal("Error is nil")
	}
	if decoded.Error.Message != original.Error.Message {
		t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
	}
	if decoded.Error.Context != original.Error.Context {
		t.Errorf("Error.Context: got %q, want %q", decoded.Error.Context, original.Error.Context)
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	event := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Category:     CategoryResponse,
	}

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	// Decode to generic map and verify keys are integers
	var rawMap map[uint64]any
	if err := logDecMode.Unmarshal(data, &rawMap); err != nil {
		t.Fatalf("failed to decode as map: %v", err)
	}

	expectedKeys := []uint64{1, 2, 3, 4}
	for _, key := range expectedKeys {
		if _, ok := rawMap[key]; !ok {
			t.Errorf("expected integer key %d not found in encoded data", key)
		}
	}

	// Verify no string keys
	var stringMap map[string]any
	if err := logDecMode.Unmarshal(data, &stringMap); err == nil && len(stringMap) > 0 {
		t.Error("encoded data contains string keys, expected integer keys only")
	}
}

func TestEventCBORUnknownKeysIgnored(t *testing.T) {
	// Encode an event, then decode into a struct missing the payload
	// fields (simulating an older reader). The decoder is configured
	// with ExtraDecErrorNone, so unknown keys are silently ignored.
	original := Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-compat",
		Direction:    DirectionOut,
		Category:     CategoryCommand,
		Command:      &CommandEvent{Command: "status"},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	type OldEvent struct {
		Timestamp    time.Time `cbor:"1,keyasint"`
		ConnectionID string    `cbor:"2,keyasint"`
		Direction    Direction `cbor:"3,keyasint"`
		Category     Category  `cbor:"4,keyasint"`
		// No payload fields -- simulates older version
	}

	var old OldEvent
	if err := logDecMode.Unmarshal(data, &old); err != nil {
		t.Fatalf("decoding into OldEvent should succeed, got: %v", err)
	}

	if old.ConnectionID != "conn-compat" {
		t.Errorf("ConnectionID: got %q, want %q", old.ConnectionID, "conn-compat")
	}
	if old.Category != CategoryCommand {
		t.Errorf("Category: got %v, want %v", old.Category, CategoryCommand)
	}
}
