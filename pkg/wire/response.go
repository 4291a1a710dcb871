package wire

import "fmt"

// CommandError is a server-reported command failure (an ACK line). It is
// local to the command that caused it and does not affect the connection.
type CommandError struct {
	// Code is the server error code.
	Code int

	// CommandIndex is the position of the failing command in a command list.
	// Zero for single commands.
	CommandIndex int

	// Command is the name of the failing command, if the server reported one.
	Command string

	// Message is the human-readable error text.
	Message string
}

// Error returns the error description.
func (e *CommandError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("command %q failed: %s (error %d)", e.Command, e.Message, e.Code)
	}
	return fmt.Sprintf("command failed: %s (error %d)", e.Message, e.Code)
}

// Response is everything the server sent in reply to one outbound unit:
// one frame for a single command, one frame per command for a command list.
// If a command failed, Err returns the failure and Frames holds only the
// frames of the commands that succeeded before it.
type Response struct {
	frames []*Frame
	err    *CommandError
}

// Frames returns the successfully completed frames in command order.
func (r *Response) Frames() []*Frame {
	return r.frames
}

// Err returns the server-reported command failure, or nil.
func (r *Response) Err() *CommandError {
	return r.err
}

// Len returns the number of completed frames.
func (r *Response) Len() int {
	return len(r.frames)
}

// SingleFrame returns the response's only frame. It returns the command
// failure if the server reported one, and a protocol error if the response
// holds more than one frame.
func (r *Response) SingleFrame() (*Frame, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.frames) != 1 {
		return nil, protocolErrorf("expected a single frame, got %d", len(r.frames))
	}
	return r.frames[0], nil
}
