// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// DstID resolves the object id a value's object is known by on the
// destination side of a forward. Passed in by the caller (dispatch),
// which alone knows which registry "destination" means for this
// message.
type DstID func(obj *object.Object) uint32

// EncodeArgs re-encodes decoded Values into w, translating any object or
// new_id arguments to the destination side's numbering via dst. An
// argument object that has no id on the destination side cannot be
// named there; that is object.ErrNoIDOnPeer, not a silent zero.
func EncodeArgs(w *wire.Writer, specs []ArgSpec, vals []Value, dst DstID) error {
	for i, spec := range specs {
		v := vals[i]
		switch spec.Type {
		case ArgInt:
			w.Int32(v.I)
		case ArgUint:
			w.Uint32(v.U)
		case ArgFixed:
			w.Fixed(v.Fx)
		case ArgString:
			w.String(v.S, false)
		case ArgArray:
			w.Array(v.A)
		case ArgFd:
			w.Fd(v.Fd)
		case ArgObject:
			if v.Obj == nil {
				w.Object(0)
				continue
			}
			id := dst(v.Obj)
			if id == 0 {
				return object.ErrNoIDOnPeer
			}
			w.Object(id)
		case ArgNewID:
			id := dst(v.Obj)
			if id == 0 {
				return object.ErrNoIDOnPeer
			}
			w.NewID(id)
		}
	}
	return nil
}
