package client

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mpd-protocol/mpd-go/pkg/log"
	"github.com/mpd-protocol/mpd-go/pkg/wire"
)

var (
	idleCommand   = wire.NewCommand("idle")
	noidleCommand = wire.NewCommand("noidle")
)

// readResult carries one decoded response or a terminal read error.
type readResult struct {
	response *wire.Response
	err      error
}

// actor is the connection engine. It is the sole writer on the
// connection and the sole consumer of decoded responses, so command
// transmission and reply pairing need no further synchronization.
type actor struct {
	client *Client
	codec  *wire.Codec
	conn   io.Closer
	frames chan readResult
	router router
	phase  Phase
}

// readLoop decodes responses off the connection and pumps them into the
// frames channel until the connection fails or the engine shuts down.
func (a *actor) readLoop() {
	for {
		resp, err := a.codec.ReadResponse()
		select {
		case a.frames <- readResult{response: resp, err: err}:
		case <-a.client.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// run drives the engine until disconnect.
func (a *actor) run() {
	go a.readLoop()

	for a.phase != PhaseDisconnected {
		switch a.phase {
		case PhaseIdle:
			a.runIdle()
		case PhaseInterrupting:
			a.runInterrupting()
		case PhaseActive:
			a.runActive()
		}
	}
}

// runIdle waits for notifications with an idle command outstanding. A
// queued command interrupts the wait with noidle. A notification is
// published; afterwards a command that queued up in the meantime goes
// out directly, the idle round having completed on its own, otherwise
// the idle is re-issued.
func (a *actor) runIdle() {
	select {
	case <-a.client.stop:
		a.disconnect(nil, "")

	case req := <-a.client.requests:
		a.router.enqueue(req)
		if err := a.write(noidleCommand); err != nil {
			a.disconnect(err, "write noidle")
			return
		}
		a.setPhase(PhaseInterrupting, "command queued")

	case res := <-a.frames:
		if res.err != nil {
			a.disconnect(res.err, "read idle reply")
			return
		}
		a.logResponse(res.response)
		if cmdErr := res.response.Err(); cmdErr != nil {
			// The server must not reject idle.
			a.disconnect(&wire.ProtocolError{Message: "idle command rejected: " + cmdErr.Message}, "idle reply")
			return
		}
		a.publishChanges(res.response)

	drain:
		for {
			select {
			case req := <-a.client.requests:
				a.router.enqueue(req)
			default:
				break drain
			}
		}
		if head, ok := a.router.head(); ok {
			if err := a.write(head.cmd); err != nil {
				a.disconnect(err, "write command")
				return
			}
			a.setPhase(PhaseActive, "idle round completed")
			return
		}
		if err := a.write(idleCommand); err != nil {
			a.disconnect(err, "write idle")
			return
		}
	}
}

// runInterrupting waits for the final reply of the interrupted idle.
// The reply may still carry changed subsystems, which are published
// like any other notification. Afterwards the head of the command
// queue is transmitted.
func (a *actor) runInterrupting() {
	select {
	case <-a.client.stop:
		a.disconnect(nil, "")

	case req := <-a.client.requests:
		a.router.enqueue(req)

	case res := <-a.frames:
		if res.err != nil {
			a.disconnect(res.err, "read idle reply")
			return
		}
		a.logResponse(res.response)
		if cmdErr := res.response.Err(); cmdErr != nil {
			a.disconnect(&wire.ProtocolError{Message: "idle command rejected: " + cmdErr.Message}, "idle reply")
			return
		}
		a.publishChanges(res.response)

		head, ok := a.router.head()
		if !ok {
			// Interrupting is only ever entered with a queued command.
			a.disconnect(&wire.ProtocolError{Message: "interrupt with empty command queue"}, "interrupt")
			return
		}
		if err := a.write(head.cmd); err != nil {
			a.disconnect(err, "write command")
			return
		}
		a.setPhase(PhaseActive, "")
	}
}

// runActive waits for the reply to the transmitted command. The reply
// goes to the oldest outstanding command; then either the next queued
// command is transmitted or the engine returns to idling.
func (a *actor) runActive() {
	select {
	case <-a.client.stop:
		a.disconnect(nil, "")

	case req := <-a.client.requests:
		a.router.enqueue(req)

	case res := <-a.frames:
		if res.err != nil {
			a.disconnect(res.err, "read command reply")
			return
		}
		a.logResponse(res.response)
		if !a.router.deliver(res.response) {
			a.disconnect(&wire.ProtocolError{Message: "response received with no command outstanding"}, "reply pairing")
			return
		}

		// Commands accepted while the reply was in flight are part of
		// the queue; the engine returns to idling only when the queue
		// is empty.
	drain:
		for {
			select {
			case req := <-a.client.requests:
				a.router.enqueue(req)
			default:
				break drain
			}
		}
		if head, ok := a.router.head(); ok {
			if err := a.write(head.cmd); err != nil {
				a.disconnect(err, "write command")
			}
			return
		}
		if err := a.write(idleCommand); err != nil {
			a.disconnect(err, "write idle")
			return
		}
		a.setPhase(PhaseIdle, "")
	}
}

// write encodes a command onto the connection and logs it.
func (a *actor) write(s wire.Sendable) error {
	if err := a.codec.Write(s); err != nil {
		return err
	}
	a.logCommand(s)
	return nil
}

// disconnect tears the connection down, fails every outstanding and
// queued command, and ends all notification streams. A nil cause or a
// clean EOF is a clean shutdown; anything else is a failure and the
// cause is attached to the error outstanding commands receive.
func (a *actor) disconnect(cause error, opContext string) {
	old := a.phase
	a.phase = PhaseDisconnected
	a.client.connected.Store(false)

	failErr := error(ErrClientClosed)
	reason := "closed"
	switch {
	case cause == nil:
	case errors.Is(cause, io.EOF):
		reason = "connection closed by server"
	default:
		failErr = fmt.Errorf("%w: %w", ErrClientClosed, cause)
		reason = cause.Error()
		a.logError(cause, opContext)
	}

	// closeErr must be in place before done is closed: closing the
	// channel publishes it to every waiter.
	a.client.closeErr = failErr
	close(a.client.done)
	a.conn.Close()

	a.router.failAll(failErr)
drain:
	for {
		select {
		case req := <-a.client.requests:
			req.fulfill(result{err: failErr})
		default:
			break drain
		}
	}

	a.client.events.Close()
	a.logPhase(old, PhaseDisconnected, reason)
}

// publishChanges extracts changed subsystems from an idle reply and
// fans them out to subscribers. Replies without changes (an interrupted
// idle that saw nothing) publish nothing.
func (a *actor) publishChanges(resp *wire.Response) {
	var changed []wire.Subsystem
	for _, f := range resp.Frames() {
		changed = append(changed, wire.ChangedSubsystems(f)...)
	}
	if len(changed) == 0 {
		return
	}
	a.logNotification(changed)
	a.client.events.Publish(changed)
}

func (a *actor) setPhase(next Phase, reason string) {
	a.logPhase(a.phase, next, reason)
	a.phase = next
}

func (a *actor) event(dir log.Direction, cat log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: a.client.connID,
		Direction:    dir,
		Category:     cat,
	}
}

func (a *actor) logCommand(s wire.Sendable) {
	ev := a.event(log.DirectionOut, log.CategoryCommand)
	cmd := &log.CommandEvent{}
	switch v := s.(type) {
	case wire.Command:
		cmd.Command = v.Name
	case wire.CommandList:
		if len(v) > 0 {
			cmd.Command = v[0].Name
		}
		if len(v) > 1 {
			cmd.ListLen = len(v)
		}
	}
	ev.Command = cmd
	a.client.logger.Log(ev)
}

func (a *actor) logResponse(resp *wire.Response) {
	ev := a.event(log.DirectionIn, log.CategoryResponse)
	re := &log.ResponseEvent{Frames: resp.Len()}
	for _, f := range resp.Frames() {
		re.Fields += f.Len()
		re.BinaryBytes += len(f.Binary())
	}
	if cmdErr := resp.Err(); cmdErr != nil {
		re.CommandError = cmdErr.Message
	}
	ev.Response = re
	a.client.logger.Log(ev)
}

func (a *actor) logNotification(changed []wire.Subsystem) {
	ev := a.event(log.DirectionIn, log.CategoryNotification)
	subsystems := make([]string, len(changed))
	for i, s := range changed {
		subsystems[i] = s.String()
	}
	ev.Notification = &log.NotificationEvent{Subsystems: subsystems}
	a.client.logger.Log(ev)
}

func (a *actor) logPhase(old, next Phase, reason string) {
	ev := a.event(log.DirectionIn, log.CategoryPhase)
	ev.PhaseChange = &log.PhaseChangeEvent{
		OldPhase: old.String(),
		NewPhase: next.String(),
		Reason:   reason,
	}
	a.client.logger.Log(ev)
}

func (a *actor) logError(err error, opContext string) {
	ev := a.event(log.DirectionIn, log.CategoryError)
	ev.Error = &log.ErrorEventData{
		Message: err.Error(),
		Context: opContext,
	}
	a.client.logger.Log(ev)
}
