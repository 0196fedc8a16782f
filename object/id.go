// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package object implements the per-endpoint object registry and the
// per-object core state shared across every interface adapter: dual
// ID-space allocation, ID translation as a pure rename, delete_id
// confirmation, and the single-borrow handler slot.
package object

// ID is a Wayland object ID: a 32-bit value in one of two disjoint
// ranges depending on which side of a connection allocated it.
type ID uint32

const (
	// ClientIDMin/ClientIDMax bound the range a Wayland client allocates
	// new-ids from.
	ClientIDMin ID = 1
	ClientIDMax ID = 0xfeffffff

	// ServerIDMin/ServerIDMax bound the range a Wayland server
	// (compositor) allocates new-ids from.
	ServerIDMin ID = 0xff000000
	ServerIDMax ID = 0xffffffff
)

// Valid reports whether id is a non-zero, live object reference.
func (id ID) Valid() bool { return id != 0 }

// InClientRange reports whether id falls in the client-allocated range.
func (id ID) InClientRange() bool { return id >= ClientIDMin && id <= ClientIDMax }

// InServerRange reports whether id falls in the server-allocated range.
func (id ID) InServerRange() bool { return id >= ServerIDMin && id <= ServerIDMax }
