// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"errors"
	"testing"

	"github.com/wl-proxy/wlproxy/wire"
)

type fdQueue struct {
	in  []int
	out []int
}

func (q *fdQueue) PopFd() (int, bool) {
	if len(q.in) == 0 {
		return -1, false
	}
	fd := q.in[0]
	q.in = q.in[1:]
	return fd, true
}

func (q *fdQueue) PushFd(fd int) { q.out = append(q.out, fd) }

func TestHeaderRoundTrip(t *testing.T) {
	h := wire.Header{ObjectID: 42, Opcode: 3, Size: 16}
	var buf [8]byte
	h.Encode(buf[:])
	got, err := wire.DecodeHeader(buf[:])
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v want %+v", got, h)
	}
}

func TestTryMessage_Incomplete(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0}
	_, _, _, err := wire.TryMessage(buf)
	if !errors.Is(err, wire.ErrIncomplete) {
		t.Fatalf("want ErrIncomplete, got %v", err)
	}
}

func TestTryMessage_BadAlignment(t *testing.T) {
	h := wire.Header{ObjectID: 1, Opcode: 0, Size: 9} // not a multiple of 4
	var buf [8]byte
	h.Encode(buf[:])
	_, _, _, err := wire.TryMessage(buf[:])
	if !errors.Is(err, wire.ErrBadAlignment) {
		t.Fatalf("want ErrBadAlignment, got %v", err)
	}
}

func TestTryMessage_WholeMessage(t *testing.T) {
	w := wire.NewWriter(7, 2, nil)
	w.Uint32(99)
	msg, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	hdr, body, total, err := wire.TryMessage(msg)
	if err != nil {
		t.Fatalf("TryMessage: %v", err)
	}
	if hdr.ObjectID != 7 || hdr.Opcode != 2 || total != len(msg) {
		t.Fatalf("unexpected header %+v total=%d", hdr, total)
	}
	r := wire.NewReader(body, nil)
	v, err := r.Uint32()
	if err != nil || v != 99 {
		t.Fatalf("v=%d err=%v", v, err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestArgs_StringNullableZeroLength(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.String("", true)
	msg, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, body, _, err := wire.TryMessage(msg)
	if err != nil {
		t.Fatalf("TryMessage: %v", err)
	}
	r := wire.NewReader(body, nil)
	s, err := r.String(true, true)
	if err != nil || s != "" {
		t.Fatalf("s=%q err=%v", s, err)
	}
}

func TestArgs_StringNonNullRejectsZeroLength(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.Uint32(0) // a 0-length string where the schema says non-null
	msg, _ := w.Finish()
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	if _, err := r.String(false, true); !errors.Is(err, wire.ErrMissingArgument) {
		t.Fatalf("want ErrMissingArgument, got %v", err)
	}
}

func TestArgs_ArrayRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	w := wire.NewWriter(1, 0, nil)
	w.Array(data)
	msg, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	got, err := r.Array()
	if err != nil {
		t.Fatalf("Array: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("got %v want %v", got, data)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestArgs_EmptyArrayRoundTrip(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.Array(nil)
	msg, _ := w.Finish()
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	got, err := r.Array()
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v err=%v", got, err)
	}
}

func TestArgs_FixedPreservedBitwise(t *testing.T) {
	raw := int32(-123456789)
	w := wire.NewWriter(1, 0, nil)
	w.Fixed(wire.FixedFromBits(raw))
	msg, _ := w.Finish()
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	f, err := r.Fixed()
	if err != nil {
		t.Fatalf("Fixed: %v", err)
	}
	if f.Bits() != raw {
		t.Fatalf("got %d want %d", f.Bits(), raw)
	}
}

func TestArgs_FdRoundTrip(t *testing.T) {
	out := &fdQueue{}
	w := wire.NewWriter(1, 0, out)
	w.Uint32(1).Fd(11).Uint32(2)
	msg, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(out.out) != 1 || out.out[0] != 11 {
		t.Fatalf("out fds = %v", out.out)
	}

	_, body, _, _ := wire.TryMessage(msg)
	in := &fdQueue{in: []int{11}}
	r := wire.NewReader(body, in)
	if v, _ := r.Uint32(); v != 1 {
		t.Fatalf("first uint32 = %d", v)
	}
	fd, err := r.Fd()
	if err != nil || fd != 11 {
		t.Fatalf("fd=%d err=%v", fd, err)
	}
	if v, _ := r.Uint32(); v != 2 {
		t.Fatalf("second uint32 = %d", v)
	}
}

func TestArgs_MissingFd(t *testing.T) {
	r := wire.NewReader(nil, &fdQueue{})
	if _, err := r.Fd(); !errors.Is(err, wire.ErrMissingArgument) {
		t.Fatalf("want ErrMissingArgument, got %v", err)
	}
}

func TestArgs_TrailingBytes(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.Uint32(1).Uint32(2)
	msg, _ := w.Finish()
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	if _, err := r.Uint32(); err != nil {
		t.Fatalf("Uint32: %v", err)
	}
	if err := r.Finish(); !errors.Is(err, wire.ErrTrailingBytes) {
		t.Fatalf("want ErrTrailingBytes, got %v", err)
	}
}

func TestArgs_BindArgs(t *testing.T) {
	out := &fdQueue{}
	w := wire.NewWriter(2, 0, out)
	w.Uint32(7) // name
	w.String("wl_compositor", false)
	w.Uint32(4) // version
	w.NewID(10)
	msg, err := w.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	name, iface, version, newID, err := r.BindArgs()
	if err != nil {
		t.Fatalf("BindArgs: %v", err)
	}
	if name != 7 || iface != "wl_compositor" || version != 4 || newID != 10 {
		t.Fatalf("got name=%d iface=%q version=%d newID=%d", name, iface, version, newID)
	}
}

func TestWriter_OversizeMessage(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.Array(make([]byte, wire.MaxMessageSize))
	if _, err := w.Finish(); !errors.Is(err, wire.ErrOversizeMessage) {
		t.Fatalf("want ErrOversizeMessage, got %v", err)
	}
}

func TestArgs_BadUtf8(t *testing.T) {
	w := wire.NewWriter(1, 0, nil)
	w.String(string([]byte{0xff, 0xfe}), false)
	msg, _ := w.Finish()
	_, body, _, _ := wire.TryMessage(msg)
	r := wire.NewReader(body, nil)
	if _, err := r.String(false, true); !errors.Is(err, wire.ErrBadUtf8) {
		t.Fatalf("want ErrBadUtf8, got %v", err)
	}
}
