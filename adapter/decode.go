// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

import (
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// DecodeArgs reads one message body against its schema. srcRegistry
// resolves ArgObject references against the sending side's object
// table. versionHint is the interface version new objects created by
// this message (ArgNewID) inherit when the schema does not name one
// explicitly (every case but wl_registry.bind, which is hand-cased).
//
// The returned Values are in schema order. For ArgNewID arguments, the
// constructed *object.Object is not yet registered anywhere — the
// caller owns inserting it into both sides' registries once it knows
// the message will actually be forwarded.
func DecodeArgs(r *wire.Reader, specs []ArgSpec, srcRegistry *object.Registry, versionHint uint32) ([]Value, error) {
	vals := make([]Value, len(specs))
	for i, spec := range specs {
		v := Value{Type: spec.Type}
		switch spec.Type {
		case ArgInt:
			n, err := r.Int32()
			if err != nil {
				return nil, err
			}
			v.I = n
		case ArgUint:
			n, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			v.U = n
		case ArgFixed:
			f, err := r.Fixed()
			if err != nil {
				return nil, err
			}
			v.Fx = f
		case ArgString:
			s, err := r.String(false, true)
			if err != nil {
				return nil, err
			}
			v.S = s
		case ArgArray:
			b, err := r.Array()
			if err != nil {
				return nil, err
			}
			v.A = b
		case ArgFd:
			fd, err := r.Fd()
			if err != nil {
				return nil, err
			}
			v.Fd = fd
		case ArgObject:
			id, err := r.Object()
			if err != nil {
				return nil, err
			}
			v.U = id
			if id != 0 {
				obj, err := srcRegistry.Lookup(object.ID(id))
				if err != nil {
					return nil, err
				}
				// The schema names the interface this argument must be;
				// "" marks a polymorphic slot that accepts any object.
				if spec.Interface != "" && obj.Interface != spec.Interface {
					return nil, object.ErrWrongType
				}
				v.Obj = obj
			}
		case ArgNewID:
			id, err := r.NewID()
			if err != nil {
				return nil, err
			}
			v.U = id
			v.Obj = object.NewObject(spec.Interface, versionHint)
		}
		vals[i] = v
	}
	return vals, nil
}
