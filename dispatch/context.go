// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dispatch implements the inbound message flow: object lookup,
// opcode/version validation, argument decoding with fd popping and
// new-object construction, single-borrow handler invocation, and the
// default id-translating forward.
//
// It sits above endpoint and adapter and below globalmap/policy in the
// dependency order: globalmap-level decisions (what a bind
// resolves to, what a new object's handler should be) are injected as
// plain function fields on Context rather than imported directly, so
// this package has no knowledge of policy or global classification.
package dispatch

import (
	"github.com/wl-proxy/wlproxy/adapter"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/object"
)

// Context carries everything one Dispatch call needs beyond the raw
// message itself.
type Context struct {
	// Src is the endpoint the message arrived on; Peer is the endpoint
	// it is forwarded to by default. For a downstream client's request,
	// Src is that client's endpoint and Peer is the shared upstream
	// endpoint; for an upstream event, Src is the upstream endpoint and
	// Peer is the downstream endpoint that owns the target object.
	Src  *endpoint.Endpoint
	Peer *endpoint.Endpoint

	// OnObjectCreated is called once for every object a forwarded
	// message creates (ArgNewID), after it is registered on both sides
	// but before the message reaches Peer. A policy layer uses this to
	// install a custom handler; the zero value leaves every new object
	// on the default forwarding path.
	OnObjectCreated func(obj *object.Object)

	// Bind handles wl_registry.bind, whose wire shape is not a generic
	// new_id argument. Supplied by globalmap so this
	// package never imports it. A nil Bind silently drops bind
	// requests, which only happens if the caller wired nothing up.
	Bind func(registry *object.Object, name uint32, iface string, version uint32, newID uint32, ctx *Context) error
}

// Handler is the per-object override a policy layer can install in
// object.HandlerSlot via object.Object.Handler.Set. Returning
// forward=false suppresses the dispatcher's default translate-and-
// forward behavior for this message.
type Handler func(ctx *Context, obj *object.Object, msg adapter.MessageSpec, vals []adapter.Value) (forward bool, err error)
