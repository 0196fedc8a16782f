// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the Wayland binary wire format: the 8-byte
// message header, the typed argument codec, and the framing rules that
// decide when a byte ring holds a whole message.
//
// Wayland messages are always little-endian and always word (4-byte)
// aligned; there is no configurable byte order and no boundary-preserving
// transport to select — the wire format is fixed by the protocol, not by
// the caller.
package wire

import "encoding/binary"

const (
	// HeaderLen is the fixed 8-byte message header: object_id, then
	// (opcode<<16)|size_bytes.
	HeaderLen = 8

	// MaxMessageSize is the largest size_bytes a message header can carry
	// (size_bytes occupies the low 16 bits of the second header word).
	MaxMessageSize = 1<<16 - 1
)

// Header is the decoded form of a message's 8-byte prefix.
type Header struct {
	ObjectID uint32
	Opcode   uint16
	Size     uint16 // includes the 8-byte header itself
}

// Encode writes the header into buf[:8]. buf must have length >= HeaderLen.
func (h Header) Encode(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.ObjectID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Opcode)<<16|uint32(h.Size))
}

// DecodeHeader parses the first 8 bytes of buf as a message header.
// It validates that Size is at least HeaderLen and a multiple of 4;
// it does not validate that buf holds the full message payload.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderLen {
		return Header{}, ErrIncomplete
	}
	objectID := binary.LittleEndian.Uint32(buf[0:4])
	word := binary.LittleEndian.Uint32(buf[4:8])
	size := uint16(word & 0xffff)
	opcode := uint16(word >> 16)
	if size < HeaderLen || size%4 != 0 {
		return Header{}, ErrBadAlignment
	}
	return Header{ObjectID: objectID, Opcode: opcode, Size: size}, nil
}

// ErrIncomplete signals that buf does not yet hold a whole message.
// Callers (endpoint's read loop) keep buffering and retry; it is not a
// protocol violation and must never be surfaced as a fatal endpoint error.
var ErrIncomplete = errIncomplete

// TryMessage attempts to peel one whole framed message off the front of
// buf. On success it returns the header, the body slice (buf[8:Size],
// aliasing buf — callers must copy before buf is reused), and the total
// byte count consumed (== int(Size)).
//
// When buf does not yet hold a whole message, it returns ErrIncomplete.
// When the header is malformed, it returns ErrBadAlignment.
func TryMessage(buf []byte) (hdr Header, body []byte, total int, err error) {
	hdr, err = DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, 0, err
	}
	if len(buf) < int(hdr.Size) {
		return Header{}, nil, 0, ErrIncomplete
	}
	return hdr, buf[HeaderLen:hdr.Size], int(hdr.Size), nil
}
