package mpdtest

import (
	"errors"
	"io"
	"net"
	"testing"

	"gopkg.in/yaml.v3"
)

// DefaultGreeting is used when a script does not specify one.
const DefaultGreeting = "OK MPD 0.23.5\n"

// Step is one scripted exchange: the exact bytes the server expects to
// receive, then the bytes it sends back. Either side may be empty.
// Close drops the connection after the exchange.
type Step struct {
	Recv  string `yaml:"recv"`
	Send  string `yaml:"send"`
	Close bool   `yaml:"close"`
}

// Script is a full scripted session.
type Script struct {
	Greeting string `yaml:"greeting"`
	Steps    []Step `yaml:"steps"`
}

// LoadScript parses a YAML script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Server replays a script over one half of an in-memory connection.
type Server struct {
	t    *testing.T
	conn net.Conn
	done chan struct{}
}

// Start creates an in-memory connection, starts a server replaying the
// script on one half and returns the other half for the client. Both
// halves are closed on test cleanup.
func Start(t *testing.T, script *Script) (net.Conn, *Server) {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	s := &Server{t: t, conn: serverConn, done: make(chan struct{})}
	go s.replay(script)

	t.Cleanup(func() {
		clientConn.Close()
		serverConn.Close()
		<-s.done
	})
	return clientConn, s
}

func (s *Server) replay(script *Script) {
	defer close(s.done)

	greeting := script.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	if _, err := io.WriteString(s.conn, greeting); err != nil {
		s.report("greeting: write: %v", err)
		return
	}

	for i, step := range script.Steps {
		if step.Recv != "" {
			buf := make([]byte, len(step.Recv))
			if _, err := io.ReadFull(s.conn, buf); err != nil {
				s.report("step %d: read: %v", i, err)
				return
			}
			if string(buf) != step.Recv {
				s.t.Errorf("step %d: received %q, want %q", i, buf, step.Recv)
				return
			}
		}
		if step.Send != "" {
			if _, err := io.WriteString(s.conn, step.Send); err != nil {
				s.report("step %d: write: %v", i, err)
				return
			}
		}
		if step.Close {
			s.conn.Close()
			return
		}
	}
}

// report flags an I/O failure unless it was caused by the test tearing
// the pipe down.
func (s *Server) report(format string, args ...any) {
	for _, arg := range args {
		if err, ok := arg.(error); ok && errors.Is(err, io.ErrClosedPipe) {
			return
		}
	}
	s.t.Errorf(format, args...)
}

// Wait blocks until the script has been fully replayed or the server
// gave up.
func (s *Server) Wait() {
	<-s.done
}

// CloseConn closes the server half of the connection, simulating the
// server dropping the client.
func (s *Server) CloseConn() {
	s.conn.Close()
}
