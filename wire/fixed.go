// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "math"

// Fixed is Wayland's signed 24.8 fixed-point argument type. It is
// preserved bitwise across forwarding — never rounded or renormalized —
// so the only operations offered are the bit-exact conversions a handler
// needs to interpret the value, not arithmetic.
type Fixed int32

// Float64 interprets the fixed-point value as a float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 256.0
}

// NewFixed converts a float64 into the nearest Fixed representation.
func NewFixed(v float64) Fixed {
	return Fixed(math.Round(v * 256.0))
}

// Bits returns the raw bit pattern, for bitwise-preserving forwarding.
func (f Fixed) Bits() int32 { return int32(f) }

// FixedFromBits reconstructs a Fixed from a raw bit pattern without any
// rounding.
func FixedFromBits(bits int32) Fixed { return Fixed(bits) }
