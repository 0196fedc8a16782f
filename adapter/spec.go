// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package adapter holds the per-interface message schemas this proxy
// multiplexes — the shape an XML protocol-description code generator
// would emit, maintained by hand here. Each interface gets its own file
// declaring its requests and events; the dispatcher uses these schemas
// to decode, translate, and re-encode every message it forwards.
package adapter

// ArgType names one wire argument shape.
type ArgType uint8

const (
	ArgInt ArgType = iota
	ArgUint
	ArgFixed
	ArgString
	ArgArray
	ArgFd
	ArgObject
	ArgNewID
)

// ArgSpec describes one formal argument of one message.
type ArgSpec struct {
	Name      string
	Type      ArgType
	Interface string // target interface name, for ArgObject/ArgNewID; "" if polymorphic
	Nullable  bool   // only meaningful for ArgObject
}

// MessageSpec describes one request or event.
type MessageSpec struct {
	Name  string
	Since uint32 // minimum interface version this message is valid from
	Args  []ArgSpec

	// Destructor marks a message whose receipt means the sending side
	// considers its reference to the target object gone: the dispatcher
	// records this side's destroy observation once the message has been
	// dispatched, whether it was forwarded or absorbed. The
	// object's id is only actually released once both sides have
	// observed destruction, which for Wayland always completes with a
	// wl_display.delete_id event — handled as its own special case in
	// dispatch, not through this flag.
	Destructor bool
}

// InterfaceSpec is the full schema for one Wayland interface: its
// requests (client-to-server direction) and events (server-to-client
// direction), indexed by opcode.
type InterfaceSpec struct {
	Name     string
	Version  uint32 // highest version this proxy understands
	Requests []MessageSpec
	Events   []MessageSpec
}

var registry = map[string]*InterfaceSpec{}

// Register adds an interface schema to the global table. Called from
// each interface file's init().
func Register(spec *InterfaceSpec) {
	registry[spec.Name] = spec
}

// Lookup finds a registered interface schema by name.
func Lookup(name string) (*InterfaceSpec, bool) {
	spec, ok := registry[name]
	return spec, ok
}

// Request returns the request schema at opcode, or false if opcode is
// out of range for this interface.
func (s *InterfaceSpec) Request(opcode uint16) (MessageSpec, bool) {
	if int(opcode) >= len(s.Requests) {
		return MessageSpec{}, false
	}
	return s.Requests[opcode], true
}

// Event returns the event schema at opcode, or false if opcode is out
// of range for this interface.
func (s *InterfaceSpec) Event(opcode uint16) (MessageSpec, bool) {
	if int(opcode) >= len(s.Events) {
		return MessageSpec{}, false
	}
	return s.Events[opcode], true
}
