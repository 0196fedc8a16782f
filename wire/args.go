// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"unicode/utf8"
)

// FdSource is the inbound fd queue a Reader pops fd-typed arguments
// from, in the order the interface schema declares them. Endpoints
// implement this over their per-endpoint inbound fd slice; wire itself
// has no notion of sockets.
type FdSource interface {
	PopFd() (fd int, ok bool)
}

// FdSink is the outbound fd queue a Writer appends fd-typed arguments
// to, at the byte offset they occur in the argument list.
type FdSink interface {
	PushFd(fd int)
}

// Reader parses typed Wayland arguments out of one message body in
// argument order. A Reader is created fresh per message; it never spans
// message boundaries.
type Reader struct {
	buf []byte
	off int
	fds FdSource
}

// NewReader returns an argument reader over body, popping fd arguments
// from fds (which may be nil if the message's schema carries no fds).
func NewReader(body []byte, fds FdSource) *Reader {
	return &Reader{buf: body, fds: fds}
}

// Remaining reports how many unread bytes remain in the message body.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) need(n int) error {
	if r.off+n > len(r.buf) {
		return ErrWrongMessageSize
	}
	return nil
}

// Uint32 reads an unsigned 32-bit integer argument.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Int32 reads a signed 32-bit integer argument.
func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

// Fixed reads a 24.8 fixed-point argument, preserved bitwise.
func (r *Reader) Fixed() (Fixed, error) {
	v, err := r.Int32()
	return FixedFromBits(v), err
}

// Object reads an object-reference argument. A value of 0 is the nullable
// "no object" reference and is returned as-is.
func (r *Reader) Object() (uint32, error) {
	return r.Uint32()
}

// NewID reads a bare new-id argument (a plain uint32 — every request in
// the protocol except wl_registry.bind).
func (r *Reader) NewID() (uint32, error) {
	return r.Uint32()
}

// String reads a length-prefixed, NUL-terminated, 4-byte-padded string
// argument. When nullable is true, a declared length of 0 is accepted and
// yields ("", nil); otherwise a 0 length returns ErrMissingArgument.
// validateUTF8 governs whether the content is checked.
func (r *Reader) String(nullable bool, validateUTF8 bool) (string, error) {
	length, err := r.Uint32()
	if err != nil {
		return "", err
	}
	if length == 0 {
		if nullable {
			return "", nil
		}
		return "", ErrMissingArgument
	}
	if err := r.need(int(length)); err != nil {
		return "", err
	}
	raw := r.buf[r.off : r.off+int(length)]
	r.off += int(length)
	r.off += padding(int(length))
	if err := r.need(0); err != nil {
		return "", err
	}
	if len(raw) == 0 || raw[len(raw)-1] != 0 {
		return "", ErrWrongMessageSize
	}
	s := string(raw[:len(raw)-1])
	if validateUTF8 && !utf8.ValidString(s) {
		return "", ErrBadUtf8
	}
	return s, nil
}

// Array reads a length-prefixed, 4-byte-padded byte array argument (no
// NUL terminator, unlike String).
func (r *Reader) Array() ([]byte, error) {
	length, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(length)); err != nil {
		return nil, err
	}
	raw := r.buf[r.off : r.off+int(length)]
	r.off += int(length)
	r.off += padding(int(length))
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

// Fd pops one file descriptor from the endpoint's inbound fd queue.
// Returns ErrMissingArgument when the queue is empty; the dispatcher
// passes that error through unchanged, so it is not reported as
// endpoint.ErrMissingFd.
func (r *Reader) Fd() (int, error) {
	if r.fds == nil {
		return -1, ErrMissingArgument
	}
	fd, ok := r.fds.PopFd()
	if !ok {
		return -1, ErrMissingArgument
	}
	return fd, nil
}

// BindArgs decodes wl_registry.bind's bespoke argument shape: the global
// name being bound, followed by an interface-name string and a version
// word that precede the new-id word. Hand-cased rather than derived from
// the generic NewID path: bind is the one request in the whole protocol
// where a new-id argument is preceded by an inline (interface, version)
// pair instead of being bound by the schema's static interface tag.
func (r *Reader) BindArgs() (name uint32, iface string, version uint32, newID uint32, err error) {
	name, err = r.Uint32()
	if err != nil {
		return 0, "", 0, 0, err
	}
	iface, err = r.String(false, true)
	if err != nil {
		return 0, "", 0, 0, err
	}
	version, err = r.Uint32()
	if err != nil {
		return 0, "", 0, 0, err
	}
	newID, err = r.Uint32()
	if err != nil {
		return 0, "", 0, 0, err
	}
	return name, iface, version, newID, nil
}

// Finish checks that the reader consumed exactly the message body with no
// trailing bytes.
func (r *Reader) Finish() error {
	if r.off != len(r.buf) {
		return ErrTrailingBytes
	}
	return nil
}

func padding(n int) int {
	return (4 - n%4) % 4
}

// Writer encodes one outbound message's argument list, deferring the
// header (object id + opcode) to Finish, which is the only point at which
// the final size is known.
type Writer struct {
	objectID uint32
	opcode   uint16
	body     []byte
	fds      FdSink
	err      error
}

// NewWriter starts encoding a new outbound message addressed to objectID
// at opcode, pushing any fd arguments onto fds in argument order.
func NewWriter(objectID uint32, opcode uint16, fds FdSink) *Writer {
	return &Writer{objectID: objectID, opcode: opcode, fds: fds, body: make([]byte, 0, 32)}
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Uint32 appends an unsigned 32-bit integer argument.
func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.body = append(w.body, b[:]...)
	return w
}

// Int32 appends a signed 32-bit integer argument.
func (w *Writer) Int32(v int32) *Writer { return w.Uint32(uint32(v)) }

// Fixed appends a 24.8 fixed-point argument, bit-exact.
func (w *Writer) Fixed(v Fixed) *Writer { return w.Int32(v.Bits()) }

// Object appends an object-reference argument (0 for a nullable null ref).
func (w *Writer) Object(id uint32) *Writer { return w.Uint32(id) }

// NewID appends a bare new-id argument.
func (w *Writer) NewID(id uint32) *Writer { return w.Uint32(id) }

// String appends a length-prefixed, NUL-terminated, padded string
// argument. A zero-length nullable string is encoded as a single 0 word.
func (w *Writer) String(s string, nullable bool) *Writer {
	if s == "" && nullable {
		return w.Uint32(0)
	}
	n := len(s) + 1
	w.Uint32(uint32(n))
	w.body = append(w.body, s...)
	w.body = append(w.body, 0)
	w.body = append(w.body, make([]byte, padding(n))...)
	return w
}

// Array appends a length-prefixed, padded byte-array argument.
func (w *Writer) Array(b []byte) *Writer {
	w.Uint32(uint32(len(b)))
	w.body = append(w.body, b...)
	w.body = append(w.body, make([]byte, padding(len(b)))...)
	return w
}

// Fd queues a file descriptor for ancillary transfer alongside this
// message, at the argument-list position it occurs.
func (w *Writer) Fd(fd int) *Writer {
	if w.fds == nil {
		w.fail(ErrMissingArgument)
		return w
	}
	w.fds.PushFd(fd)
	return w
}

// Finish assembles the header and body into one wire-ready message.
// Returns ErrOversizeMessage if the encoded size would not fit the
// 16-bit size_bytes field.
func (w *Writer) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	total := HeaderLen + len(w.body)
	if total > MaxMessageSize {
		return nil, ErrOversizeMessage
	}
	out := make([]byte, total)
	Header{ObjectID: w.objectID, Opcode: w.opcode, Size: uint16(total)}.Encode(out)
	copy(out[HeaderLen:], w.body)
	return out, nil
}
