// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "errors"

// Framing errors.
var (
	// ErrTruncated reports that the stream ended in the middle of a message.
	ErrTruncated = errors.New("wire: truncated message")

	// ErrBadAlignment reports a size_bytes field that is not a multiple of 4
	// or smaller than the 8-byte header.
	ErrBadAlignment = errors.New("wire: bad message alignment")

	// ErrOversizeMessage reports a message whose encoded size would not fit
	// the 16-bit size_bytes field.
	ErrOversizeMessage = errors.New("wire: message too large")
)

// Schema errors. Raised while parsing typed arguments;
// the dispatcher attaches interface/opcode context before surfacing them.
var (
	ErrWrongMessageSize = errors.New("wire: wrong message size")
	ErrTrailingBytes    = errors.New("wire: trailing bytes in message")
	ErrMissingArgument  = errors.New("wire: missing argument")
	ErrBadUtf8          = errors.New("wire: invalid utf-8 in string argument")
)

// errIncomplete is an internal, non-fatal signal meaning "not enough bytes
// buffered yet" — never returned across the wire package boundary as an
// error the caller should react to as malformed input. It is distinct from
// ErrTruncated, which means the stream ended (EOF) while a message was
// still incomplete.
var errIncomplete = errors.New("wire: incomplete (internal)")
