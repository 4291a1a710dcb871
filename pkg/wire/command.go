package wire

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Command list framing keywords.
const (
	commandListBegin = "command_list_ok_begin"
	commandListEnd   = "command_list_end"
)

// Command validation errors.
var (
	// ErrEmptyCommand indicates a command without a name, or an empty list.
	ErrEmptyCommand = errors.New("empty command")

	// ErrInvalidCommand indicates a command that cannot be represented on the wire.
	ErrInvalidCommand = errors.New("invalid command")
)

// Sendable is an outbound protocol unit: it encodes to wire bytes and expects
// exactly one Response in return.
// Implemented by Command and CommandList.
type Sendable interface {
	// Validate reports whether the value can be encoded.
	Validate() error

	// Encode writes the wire form, including the trailing newline.
	Encode(w io.Writer) error
}

// Command is a single protocol command with optional arguments.
// The zero value is not valid; use NewCommand.
type Command struct {
	// Name is the command word, e.g. "status" or "play".
	Name string

	// Args are the positional arguments. Quoting is applied during encoding.
	Args []string
}

// NewCommand creates a command with the given name and arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argument returns a copy of the command with arg appended.
func (c Command) Argument(arg string) Command {
	args := make([]string, len(c.Args), len(c.Args)+1)
	copy(args, c.Args)
	return Command{Name: c.Name, Args: append(args, arg)}
}

// Validate checks that the command can be encoded.
func (c Command) Validate() error {
	if c.Name == "" {
		return ErrEmptyCommand
	}
	if strings.ContainsAny(c.Name, " \t\r\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidCommand, c.Name)
	}
	if c.Name != strings.ToLower(c.Name) {
		return fmt.Errorf("%w: name %q is not lowercase", ErrInvalidCommand, c.Name)
	}
	for _, arg := range c.Args {
		if strings.ContainsAny(arg, "\r\n") {
			return fmt.Errorf("%w: argument %q contains a line break", ErrInvalidCommand, arg)
		}
	}
	return nil
}

// Encode writes the newline-terminated wire form of the command.
func (c Command) Encode(w io.Writer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var b strings.Builder
	c.appendWire(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the wire form without the trailing newline.
func (c Command) String() string {
	var b strings.Builder
	c.appendWire(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

func (c Command) appendWire(b *strings.Builder) {
	b.WriteString(c.Name)
	for _, arg := range c.Args {
		b.WriteByte(' ')
		appendQuoted(b, arg)
	}
	b.WriteByte('\n')
}

// needsQuoting reports whether an argument must be quoted on the wire.
func needsQuoting(arg string) bool {
	return arg == "" || strings.ContainsAny(arg, " \t'\"\\")
}

// appendQuoted writes arg, quoting and escaping it if required.
func appendQuoted(b *strings.Builder, arg string) {
	if !needsQuoting(arg) {
		b.WriteString(arg)
		return
	}
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		ch := arg[i]
		if ch == '"' || ch == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	b.WriteByte('"')
}

// CommandList is an ordered sequence of commands transmitted as one unit.
// The server answers each contained command with its own frame; a failing
// command aborts the remainder of the list.
type CommandList []Command

// Validate checks that the list is non-empty and each command is valid.
func (l CommandList) Validate() error {
	if len(l) == 0 {
		return ErrEmptyCommand
	}
	for _, c := range l {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes the wire form of the list. A single-element list encodes as
// the bare command, without list framing.
func (l CommandList) Encode(w io.Writer) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if len(l) == 1 {
		return l[0].Encode(w)
	}
	var b strings.Builder
	b.WriteString(commandListBegin)
	b.WriteByte('\n')
	for _, c := range l {
		c.appendWire(&b)
	}
	b.WriteString(commandListEnd)
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// Compile-time interface satisfaction checks.
var (
	_ Sendable = Command{}
	_ Sendable = CommandList{}
)
