// Package wire implements the MPD line protocol codec.
//
// The codec translates between wire bytes and protocol units:
//
//   - Command / CommandList: outbound, newline-terminated with MPD argument
//     quoting. Command lists are framed with command_list_ok_begin and
//     command_list_end.
//   - Response: inbound, one or more Frames of ordered key/value fields plus
//     an optional binary section, terminated by "OK", separated by "list_OK"
//     inside command lists, or ended early by an "ACK" error line.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   Commands / Responses         │
//	├────────────────────────────────┤
//	│   Line Framing (UTF-8 + \n)    │
//	├────────────────────────────────┤
//	│   TCP or Unix socket           │
//	└────────────────────────────────┘
//
// # Error Model
//
// The codec distinguishes two failure classes. Server-reported command
// failures (ACK lines) are returned as a *CommandError inside the Response;
// they concern a single command only. Malformed frames, oversized payloads
// and truncated streams are returned as *ProtocolError from ReadResponse and
// are fatal to the connection, as are transport I/O errors.
//
// # Concurrency
//
// A Codec has independent read and write halves: one goroutine may call
// ReadResponse while another calls Write. Neither half may be shared between
// goroutines.
package wire
