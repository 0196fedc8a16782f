// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package endpoint implements one Wayland socket connection: the
// buffered, non-blocking read loop that yields whole framed messages,
// the outgoing byte+fd queue with flush coalescing, and the dying-state
// shutdown path.
//
// It knows nothing about dispatch, adapters, or policy: endpoint sits
// below dispatch and stays ignorant of what the bytes it frames mean.
package endpoint

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// Kind is an endpoint's semantic role: the one upstream connection to
// the real compositor, or a downstream client connection.
type Kind uint8

const (
	Upstream Kind = iota
	Downstream
)

// readChunk is the scratch size for one recvmsg call.
const readChunk = 64 * 1024

// oobScratchLen is sized for maxFdsPerSendmsg worth of SCM_RIGHTS.
var oobScratchLen = unix.CmsgSpace(maxFdsPerSendmsg * 4)

// RawMessage is one whole framed message pulled off an endpoint's
// inbound buffer: a header plus its body. Body is a copy, independent of
// the endpoint's internal buffer, so callers may hold onto it across
// further PollRead calls.
type RawMessage struct {
	Header wire.Header
	Body   []byte
}

// Endpoint is one live Wayland connection: either the single upstream
// connection to the real compositor, or one of many downstream client
// connections.
type Endpoint struct {
	ID   object.EndpointID
	Kind Kind

	fd int

	Registry *object.Registry

	rbuf []byte // accumulated, unconsumed inbound bytes

	outbuf        []byte
	outFds        fdQueue
	fdsAttached   bool // fds already attached to the current outbuf batch
	flushQueued   bool
	flushRegister func(*Endpoint) // called once when this endpoint first has queued output

	inFds fdQueue

	dying    bool
	dieCause error
}

// New constructs an Endpoint around an already-connected, non-blocking
// AF_UNIX socket fd. flushRegister is called the first time output is
// queued on an otherwise-idle endpoint; it is typically
// proxystate.State.queueFlush.
func New(fd int, kind Kind, id object.EndpointID, registry *object.Registry, flushRegister func(*Endpoint)) *Endpoint {
	return &Endpoint{
		ID:            id,
		Kind:          kind,
		fd:            fd,
		Registry:      registry,
		flushRegister: flushRegister,
	}
}

// Fd returns the raw socket fd, for event-loop readiness polling.
func (e *Endpoint) Fd() int { return e.fd }

// Dying reports whether this endpoint has entered the dying state.
func (e *Endpoint) Dying() bool { return e.dying }

// DieCause returns the error that caused this endpoint to die, if any
// (nil for a clean peer-initiated close).
func (e *Endpoint) DieCause() error { return e.dieCause }

// MarkDying transitions the endpoint into the dying state. Idempotent.
func (e *Endpoint) MarkDying(cause error) {
	if e.dying {
		return
	}
	e.dying = true
	e.dieCause = cause
}

// InboundFds exposes this endpoint's inbound fd queue as a wire.FdSource,
// for constructing argument readers against messages pulled from this
// endpoint.
func (e *Endpoint) InboundFds() wire.FdSource { return &e.inFds }

// OutboundFds exposes this endpoint's outbound fd queue as a
// wire.FdSink, for constructing argument writers targeting this
// endpoint.
func (e *Endpoint) OutboundFds() wire.FdSink { return &e.outFds }

// PollRead drains whatever is currently available on the socket
// (non-blocking) and returns every whole framed message that became
// available. It never blocks: an empty, nil-error result means "nothing
// ready right now" (the underlying recvmsg hit EAGAIN/EWOULDBLOCK),
// which is not surfaced as an error a caller needs to react to.
func (e *Endpoint) PollRead() ([]RawMessage, error) {
	if e.dying {
		return nil, nil
	}

	buf := make([]byte, readChunk)
	oob := make([]byte, oobScratchLen)

	for {
		n, oobn, _, _, err := unix.Recvmsg(e.fd, buf, oob, unix.MSG_DONTWAIT)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				break
			}
			e.MarkDying(fmt.Errorf("%w: recvmsg: %v", ErrSocketIO, err))
			return e.drainMessages()
		}
		if n == 0 {
			// Peer closed the connection.
			if len(e.rbuf) > 0 {
				e.MarkDying(fmt.Errorf("%w: %v", wire.ErrTruncated, "connection closed mid-message"))
			} else {
				e.MarkDying(nil)
			}
			return e.drainMessages()
		}
		e.rbuf = append(e.rbuf, buf[:n]...)
		if oobn > 0 {
			fds, ferr := parseRights(oob[:oobn])
			if ferr != nil {
				e.MarkDying(fmt.Errorf("%w: %v", ErrSocketIO, ferr))
				return e.drainMessages()
			}
			e.inFds.pushAll(fds)
		}
	}
	return e.drainMessages()
}

// drainMessages peels as many whole messages as currently sit in rbuf.
func (e *Endpoint) drainMessages() ([]RawMessage, error) {
	var out []RawMessage
	consumed := 0
	for {
		hdr, body, total, err := wire.TryMessage(e.rbuf[consumed:])
		if err != nil {
			if err == wire.ErrIncomplete {
				break
			}
			e.MarkDying(err)
			break
		}
		bodyCopy := make([]byte, len(body))
		copy(bodyCopy, body)
		out = append(out, RawMessage{Header: hdr, Body: bodyCopy})
		consumed += total
	}
	if consumed > 0 {
		e.rbuf = append(e.rbuf[:0], e.rbuf[consumed:]...)
	}
	return out, nil
}

// Send enqueues a whole encoded message for delivery. Any fds the
// message's arguments carried must already have been pushed onto
// OutboundFds() while it was being encoded (wire.Writer does this).
func (e *Endpoint) Send(msg []byte) {
	wasEmpty := len(e.outbuf) == 0
	e.outbuf = append(e.outbuf, msg...)
	if wasEmpty && !e.flushQueued {
		e.flushQueued = true
		if e.flushRegister != nil {
			e.flushRegister(e)
		}
	}
}

// Flush attempts to drain the outbound buffer and fd queue to the
// socket in one or more non-blocking sendmsg calls. It returns true once
// the buffer is fully drained; a false result with a nil error means
// back-pressure — the caller should leave this endpoint on the flush
// list and retry next tick.
func (e *Endpoint) Flush() (done bool, err error) {
	if e.dying {
		return true, nil
	}
	for len(e.outbuf) > 0 {
		var oob []byte
		var attaching []int
		if !e.fdsAttached {
			attaching = e.outFds.drain()
			if len(attaching) > 0 {
				oob = unix.UnixRights(attaching...)
			}
		}
		n, err := unix.SendmsgN(e.fd, e.outbuf, oob, nil, unix.MSG_DONTWAIT)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				// Nothing was sent; put any drained-but-unsent fds back.
				if len(attaching) > 0 {
					e.outFds.fds = append(attaching, e.outFds.fds...)
				}
				e.flushQueued = true
				return false, nil
			}
			e.MarkDying(fmt.Errorf("%w: sendmsg: %v", ErrSocketIO, err))
			return true, e.dieCause
		}
		if n > 0 && len(attaching) > 0 {
			e.fdsAttached = true
		}
		e.outbuf = e.outbuf[n:]
		if len(e.outbuf) == 0 {
			e.fdsAttached = false
		}
	}
	e.flushQueued = false
	return true, nil
}

// FlushQueued reports whether this endpoint currently has output
// pending delivery.
func (e *Endpoint) FlushQueued() bool { return e.flushQueued }

// Close releases the socket and closes every fd still sitting in either
// queue, so a dying endpoint never leaks descriptors.
func (e *Endpoint) Close() error {
	e.inFds.closeAll()
	e.outFds.closeAll()
	return unix.Close(e.fd)
}

func parseRights(oob []byte) ([]int, error) {
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return nil, err
	}
	var fds []int
	for _, scm := range scms {
		got, err := unix.ParseUnixRights(&scm)
		if err != nil {
			return nil, err
		}
		fds = append(fds, got...)
	}
	return fds, nil
}
