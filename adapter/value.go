// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// Value is one decoded argument. Type selects the meaningful field;
// ArgObject and ArgNewID set both U (the raw id) and Obj.
type Value struct {
	Type ArgType

	U  uint32
	I  int32
	Fx wire.Fixed
	S  string
	A  []byte
	Fd int

	// Obj is the resolved local object for ArgObject (nil if the
	// argument was a null object reference), and the freshly allocated,
	// not-yet-registered object for ArgNewID.
	Obj *object.Object
}
