package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Codec limits and terminators.
const (
	// MaxLineSize is the maximum accepted length of a single response line.
	MaxLineSize = 1024 * 1024

	// MaxBinarySize is the maximum accepted size of a binary section (16 MB).
	MaxBinarySize = 16 * 1024 * 1024

	respOK         = "OK"
	respListOK     = "list_OK"
	ackPrefix      = "ACK "
	binaryField    = "binary"
	fieldSeparator = ": "
	greetingPrefix = "OK MPD "
)

// ProtocolError indicates a malformed or unexpected server message. It is
// fatal to the connection, like a transport I/O error.
type ProtocolError struct {
	Message string
}

// Error returns the error description.
func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Message
}

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Message: fmt.Sprintf(format, args...)}
}

// Codec reads and writes protocol units over a byte stream.
//
// The read and write halves are independent: one goroutine may call
// ReadGreeting/ReadResponse while another calls Write. Neither half is safe
// for use by more than one goroutine.
type Codec struct {
	r *bufio.Reader
	w io.Writer
}

// NewCodec creates a codec over the given stream.
func NewCodec(rw io.ReadWriter) *Codec {
	return &Codec{
		r: bufio.NewReader(rw),
		w: rw,
	}
}

// ReadGreeting consumes the server greeting ("OK MPD <version>") and returns
// the advertised protocol version. It must be called exactly once, before
// the first ReadResponse.
func (c *Codec) ReadGreeting() (string, error) {
	line, err := c.readLine()
	if err != nil {
		return "", err
	}
	version, ok := strings.CutPrefix(line, greetingPrefix)
	if !ok || version == "" {
		return "", protocolErrorf("invalid greeting %q", line)
	}
	return version, nil
}

// Write encodes and transmits one outbound unit.
func (c *Codec) Write(s Sendable) error {
	return s.Encode(c.w)
}

// ReadResponse reads one complete response.
//
// Field lines accumulate into the current frame until a terminator: "OK"
// completes the response, "list_OK" completes one frame inside a command
// list, and an "ACK" line reports a command failure, which is returned
// inside the Response. This makes decoding self-synchronizing; the codec
// does not need to know what was sent.
//
// Returned errors are I/O errors or *ProtocolError; both are fatal to the
// connection.
func (c *Codec) ReadResponse() (*Response, error) {
	resp := &Response{}
	frame := &Frame{}
	sawList := false

	for {
		line, err := c.readLine()
		if err != nil {
			return nil, err
		}

		switch {
		case line == respOK:
			if sawList {
				// The final frame of a command list is closed by list_OK;
				// nothing may follow it before the terminating OK.
				if !frame.IsEmpty() {
					return nil, protocolErrorf("fields after final list_OK")
				}
			} else {
				resp.frames = append(resp.frames, frame)
			}
			return resp, nil

		case line == respListOK:
			sawList = true
			resp.frames = append(resp.frames, frame)
			frame = &Frame{}

		case strings.HasPrefix(line, ackPrefix):
			cmdErr, err := parseAck(line)
			if err != nil {
				return nil, err
			}
			resp.err = cmdErr
			return resp, nil

		default:
			key, value, ok := strings.Cut(line, fieldSeparator)
			if !ok || key == "" {
				return nil, protocolErrorf("malformed response line %q", line)
			}
			if key == binaryField {
				if err := c.readBinary(frame, value); err != nil {
					return nil, err
				}
				continue
			}
			frame.append(key, value)
		}
	}
}

// readBinary consumes a binary section: the size was announced in the
// "binary: <n>" field, followed by n raw bytes and a trailing newline.
func (c *Codec) readBinary(frame *Frame, sizeField string) error {
	if frame.binary != nil {
		return protocolErrorf("duplicate binary section")
	}
	size, err := strconv.Atoi(sizeField)
	if err != nil || size < 0 {
		return protocolErrorf("invalid binary size %q", sizeField)
	}
	if size > MaxBinarySize {
		return protocolErrorf("binary section of %d bytes exceeds limit", size)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(c.r, data); err != nil {
		return protocolErrorf("truncated binary section: %v", err)
	}
	nl, err := c.r.ReadByte()
	if err != nil {
		return protocolErrorf("truncated binary section: %v", err)
	}
	if nl != '\n' {
		return protocolErrorf("binary section not newline-terminated")
	}

	frame.binary = data
	return nil
}

// readLine reads one newline-terminated line, without the newline. The
// line is read in buffer-sized chunks so the size limit trips before an
// overlong line is accumulated in full.
func (c *Codec) readLine() (string, error) {
	var line []byte
	for {
		chunk, err := c.r.ReadSlice('\n')
		line = append(line, chunk...)
		if len(line) > MaxLineSize {
			return "", protocolErrorf("response line exceeds %d bytes", MaxLineSize)
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return "", protocolErrorf("connection closed mid-line")
		}
		return "", err
	}
	return strings.TrimSuffix(string(line), "\n"), nil
}

// parseAck parses a server error line of the form
//
//	ACK [<code>@<index>] {<command>} <message>
func parseAck(line string) (*CommandError, error) {
	rest := strings.TrimPrefix(line, ackPrefix)

	if !strings.HasPrefix(rest, "[") {
		return nil, protocolErrorf("malformed error line %q", line)
	}
	closing := strings.IndexByte(rest, ']')
	if closing < 0 {
		return nil, protocolErrorf("malformed error line %q", line)
	}
	codeStr, idxStr, ok := strings.Cut(rest[1:closing], "@")
	if !ok {
		return nil, protocolErrorf("malformed error line %q", line)
	}
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return nil, protocolErrorf("invalid error code in %q", line)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return nil, protocolErrorf("invalid command index in %q", line)
	}

	rest = strings.TrimPrefix(rest[closing+1:], " ")
	if !strings.HasPrefix(rest, "{") {
		return nil, protocolErrorf("malformed error line %q", line)
	}
	brace := strings.IndexByte(rest, '}')
	if brace < 0 {
		return nil, protocolErrorf("malformed error line %q", line)
	}

	return &CommandError{
		Code:         code,
		CommandIndex: idx,
		Command:      rest[1:brace],
		Message:      strings.TrimPrefix(rest[brace+1:], " "),
	}, nil
}
