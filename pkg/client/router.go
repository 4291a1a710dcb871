package client

import "github.com/mpd-protocol/mpd-go/pkg/wire"

// router owns the FIFO of accepted commands and pairs every command
// reply with the oldest outstanding command. Only the head of the queue
// has been transmitted; the rest are waiting for the connection to
// become free.
type router struct {
	queue []request
}

// enqueue appends a command to the back of the queue.
func (r *router) enqueue(req request) {
	r.queue = append(r.queue, req)
}

// pending returns the number of outstanding commands.
func (r *router) pending() int {
	return len(r.queue)
}

// head returns the oldest outstanding command without removing it.
func (r *router) head() (request, bool) {
	if len(r.queue) == 0 {
		return request{}, false
	}
	return r.queue[0], true
}

// deliver hands the reply to the oldest outstanding command and removes
// it from the queue. Returns false if no command is outstanding.
func (r *router) deliver(resp *wire.Response) bool {
	if len(r.queue) == 0 {
		return false
	}
	req := r.queue[0]
	r.queue[0] = request{}
	r.queue = r.queue[1:]
	req.fulfill(result{response: resp})
	return true
}

// failAll fails every outstanding command with err and empties the queue.
func (r *router) failAll(err error) {
	for i, req := range r.queue {
		req.fulfill(result{err: err})
		r.queue[i] = request{}
	}
	r.queue = nil
}
