// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

func socketPair(t *testing.T) (a, b int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			t.Fatalf("set nonblock: %v", err)
		}
	}
	return fds[0], fds[1]
}

func newTestEndpoint(fd int) *Endpoint {
	return New(fd, Downstream, 1, object.NewDownstreamRegistry(), nil)
}

func encodeMessage(t *testing.T, objID uint32, opcode uint16, build func(w *wire.Writer)) []byte {
	t.Helper()
	w := wire.NewWriter(objID, opcode, nil)
	build(w)
	b, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return b
}

func TestEndpointSendFlushPollRead(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	eb := newTestEndpoint(fdB)
	defer ea.Close()
	defer eb.Close()

	msg := encodeMessage(t, 1, 0, func(w *wire.Writer) { w.Uint32(42) })
	ea.Send(msg)

	done, err := ea.Flush()
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if !done {
		t.Fatalf("flush did not complete in one pass on a socketpair")
	}

	msgs, err := eb.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Header.ObjectID != 1 {
		t.Fatalf("object id mismatch: %d", msgs[0].Header.ObjectID)
	}
	r := wire.NewReader(msgs[0].Body, eb.InboundFds())
	v, err := r.Uint32()
	if err != nil || v != 42 {
		t.Fatalf("payload mismatch: v=%d err=%v", v, err)
	}
}

func TestEndpointFdRoundTrip(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	eb := newTestEndpoint(fdB)
	defer ea.Close()
	defer eb.Close()

	tmp, err := os.CreateTemp(t.TempDir(), "fd")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer tmp.Close()
	carried := int(tmp.Fd())

	w := wire.NewWriter(1, 0, ea.OutboundFds())
	w.Fd(carried)
	body, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	ea.Send(body)
	if _, err := ea.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	msgs, err := eb.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	r := wire.NewReader(msgs[0].Body, eb.InboundFds())
	got, err := r.Fd()
	if err != nil {
		t.Fatalf("fd: %v", err)
	}
	defer unix.Close(got)
	if got == carried {
		t.Fatalf("received fd should be a dup, not the same number as the sender's")
	}
}

func TestEndpointMultipleMessagesCoalesce(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	eb := newTestEndpoint(fdB)
	defer ea.Close()
	defer eb.Close()

	for i := uint32(0); i < 5; i++ {
		ea.Send(encodeMessage(t, 1, 0, func(w *wire.Writer) { w.Uint32(i) }))
	}
	if _, err := ea.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	msgs, err := eb.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages coalesced into one read, got %d", len(msgs))
	}
	for i, m := range msgs {
		r := wire.NewReader(m.Body, eb.InboundFds())
		v, err := r.Uint32()
		if err != nil || v != uint32(i) {
			t.Fatalf("message %d: v=%d err=%v", i, v, err)
		}
	}
}

func TestEndpointPeerCloseMarksDying(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	eb := newTestEndpoint(fdB)
	defer eb.Close()

	if err := unix.Close(fdA); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = ea

	if _, err := eb.PollRead(); err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if !eb.Dying() {
		t.Fatalf("expected endpoint to be dying after peer close")
	}
	if eb.DieCause() != nil {
		t.Fatalf("clean close should not set a die cause: %v", eb.DieCause())
	}
}

func TestEndpointTruncatedOnMidMessageClose(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	eb := newTestEndpoint(fdB)
	defer eb.Close()

	// Write a header declaring more body than will ever arrive, then
	// close before sending it.
	hdr := wire.Header{ObjectID: 1, Opcode: 0, Size: 16}
	buf := make([]byte, wire.HeaderLen)
	hdr.Encode(buf)
	if _, err := unix.Write(fdA, buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := unix.Close(fdA); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = ea

	if _, err := eb.PollRead(); err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if !eb.Dying() {
		t.Fatalf("expected endpoint to be dying")
	}
	if eb.DieCause() == nil {
		t.Fatalf("expected a truncated-message die cause")
	}
}

func TestEndpointCloseClosesQueuedFds(t *testing.T) {
	fdA, fdB := socketPair(t)
	ea := newTestEndpoint(fdA)
	_ = fdB

	tmp, err := os.CreateTemp(t.TempDir(), "fd")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer tmp.Close()
	dup, err := unix.Dup(int(tmp.Fd()))
	if err != nil {
		t.Fatalf("dup: %v", err)
	}
	ea.outFds.PushFd(dup)

	if err := ea.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := unix.Close(dup); err == nil {
		t.Fatalf("expected fd %d to already be closed by Close", dup)
	}
}
