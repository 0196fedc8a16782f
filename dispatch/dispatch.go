// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/wl-proxy/wlproxy/adapter"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// Dispatch runs the full inbound flow for one message received on
// ctx.Src: look up the target object, validate the opcode and version
// against its interface's schema, decode its arguments (popping fds and
// constructing any new objects along the way), give an installed
// handler first refusal, and — unless the handler suppressed it —
// forward the message to ctx.Peer with every id translated to the
// peer's own numbering.
func Dispatch(ctx *Context, raw endpoint.RawMessage) error {
	obj, err := ctx.Src.Registry.Lookup(object.ID(raw.Header.ObjectID))
	if err != nil {
		return err
	}

	spec, ok := adapter.Lookup(obj.Interface)
	if !ok {
		return adapter.ErrUnknownInterface
	}

	isRequest := ctx.Src.Kind == endpoint.Downstream

	if obj.Interface == "wl_registry" && isRequest && raw.Header.Opcode == adapter.BindOpcode {
		return dispatchBind(ctx, obj, raw)
	}

	var msg adapter.MessageSpec
	if isRequest {
		msg, ok = spec.Request(raw.Header.Opcode)
	} else {
		msg, ok = spec.Event(raw.Header.Opcode)
	}
	if !ok {
		return ErrUnknownOpcode
	}
	if msg.Since > obj.Version {
		return adapter.ErrVersionTooLow
	}

	if obj.Interface == "wl_display" && !isRequest && msg.Name == "delete_id" {
		return dispatchDeleteID(ctx, raw)
	}

	r := wire.NewReader(raw.Body, ctx.Src.InboundFds())
	vals, err := adapter.DecodeArgs(r, msg.Args, ctx.Src.Registry, obj.Version)
	if err != nil {
		return err
	}
	if err := r.Finish(); err != nil {
		return err
	}

	srcSide := object.SideClient
	if ctx.Src.Kind == endpoint.Upstream {
		srcSide = object.SideServer
	}

	// A peer sending on an object it already destroyed itself is a
	// lifecycle error on that message; the other side racing a destroy
	// it has not seen yet is not, and is absorbed further down.
	if obj.DestroyObservedBy(srcSide) {
		closeAbsorbedFds(msg, vals)
		return object.ErrAlreadyDestroyed
	}

	forward := true
	if h, _ := obj.Handler.Get().(Handler); h != nil {
		release, err := obj.Handler.Borrow()
		if err != nil {
			return err
		}
		forward, err = h(ctx, obj, msg, vals)
		release()
		if err != nil {
			return err
		}
	}

	// A handler that synchronously destroyed obj (directly, or by
	// forwarding a request that completes its destroy latch) leaves
	// nothing left to forward to.
	if forward && obj.Destroyed() {
		forward = false
	}

	// The object's forwarding flags gate the default handler's relay,
	// independent of whatever a custom handler decided: when the flag
	// for this direction is false, the message is dropped, not relayed.
	if forward && !forwardAllowed(ctx, obj) {
		forward = false
	}

	if forward {
		// The default handler relays to the peer endpoint; with no peer
		// and no custom handler having claimed the message, there is
		// nothing to run it.
		if ctx.Peer == nil {
			closeAbsorbedFds(msg, vals)
			return object.ErrNoHandler
		}
		if err := forwardMessage(ctx, obj, msg, vals, raw.Header.Opcode); err != nil {
			return err
		}
	} else {
		closeAbsorbedFds(msg, vals)
	}

	if msg.Destructor {
		obj.ObserveDestroy(srcSide)
		// An event-only interface (wl_callback) gives its client no
		// request vocabulary to retire its own side with, so the
		// destructor event stands in for both observations; the id is
		// still only released once delete_id confirms.
		if len(spec.Requests) == 0 {
			obj.ObserveDestroy(object.SideClient)
		}
	}

	return nil
}

// closeAbsorbedFds closes the fds of a message that was absorbed rather
// than forwarded: decoding already popped them off the source endpoint's
// inbound queue, so absorbing the message means owning — and closing —
// them.
func closeAbsorbedFds(msg adapter.MessageSpec, vals []adapter.Value) {
	for i, argSpec := range msg.Args {
		if argSpec.Type == adapter.ArgFd {
			_ = unix.Close(vals[i].Fd)
		}
	}
}

// forwardAllowed reports whether obj's forwarding flags permit relaying a
// message arriving on ctx.Src's side: a downstream-originated request
// checks ForwardToServer, an upstream-originated event checks
// ForwardToClient.
func forwardAllowed(ctx *Context, obj *object.Object) bool {
	if ctx.Src.Kind == endpoint.Downstream {
		return obj.ForwardToServer
	}
	return obj.ForwardToClient
}

// forwardMessage registers any objects this message creates, translates
// every object/new_id argument to ctx.Peer's numbering, and sends the
// re-encoded message.
func forwardMessage(ctx *Context, obj *object.Object, msg adapter.MessageSpec, vals []adapter.Value, opcode uint16) error {
	for i, argSpec := range msg.Args {
		if argSpec.Type != adapter.ArgNewID {
			continue
		}
		newObj := vals[i].Obj
		if err := ctx.Src.Registry.Reserve(object.ID(vals[i].U), newObj); err != nil {
			return err
		}
		if _, err := ctx.Peer.Registry.Allocate(newObj); err != nil {
			return err
		}
		if ctx.OnObjectCreated != nil {
			ctx.OnObjectCreated(newObj)
		}
	}

	dst := func(o *object.Object) uint32 { return uint32(object.IDOn(ctx.Peer.Registry, o)) }

	peerObjID := object.IDOn(ctx.Peer.Registry, obj)
	if !peerObjID.Valid() {
		return object.ErrNoIDOnPeer
	}
	w := wire.NewWriter(uint32(peerObjID), opcode, ctx.Peer.OutboundFds())
	if err := adapter.EncodeArgs(w, msg.Args, vals, dst); err != nil {
		// Toward a downstream client the missing projection is
		// specifically the argument's client-side id.
		if errors.Is(err, object.ErrNoIDOnPeer) && ctx.Peer.Kind == endpoint.Downstream {
			return object.ErrArgNoClientID
		}
		return err
	}
	body, err := w.Finish()
	if err != nil {
		return err
	}
	ctx.Peer.Send(body)
	return nil
}

// dispatchBind handles wl_registry.bind: decode its bespoke argument
// shape and hand off to the globalmap-supplied Bind hook, which decides
// Forward/Ignore/Synthetic and performs the actual object construction.
func dispatchBind(ctx *Context, registryObj *object.Object, raw endpoint.RawMessage) error {
	r := wire.NewReader(raw.Body, ctx.Src.InboundFds())
	name, iface, version, newID, err := r.BindArgs()
	if err != nil {
		return err
	}
	if err := r.Finish(); err != nil {
		return err
	}
	if ctx.Bind == nil {
		return nil
	}
	return ctx.Bind(registryObj, name, iface, version, newID, ctx)
}

// dispatchDeleteID handles wl_display.delete_id: its single argument is
// not an object reference but a raw id naming an object in ctx.Src's
// (the upstream endpoint's) own numbering. The dispatcher translates it
// to the downstream id before forwarding, and completes the destroy
// latch for the named object now that the server has confirmed — the id
// is never reusable until both sides have.
func dispatchDeleteID(ctx *Context, raw endpoint.RawMessage) error {
	r := wire.NewReader(raw.Body, ctx.Src.InboundFds())
	id, err := r.Uint32()
	if err != nil {
		return err
	}
	if err := r.Finish(); err != nil {
		return err
	}

	target, err := ctx.Src.Registry.Lookup(object.ID(id))
	if err != nil {
		return err
	}

	both := target.ObserveDestroy(object.SideServer)

	downstreamID := object.IDOn(ctx.Peer.Registry, target)
	w := wire.NewWriter(1, 1, nil) // wl_display is always id 1, delete_id is opcode 1
	w.Uint32(uint32(downstreamID))
	body, err := w.Finish()
	if err != nil {
		return err
	}
	ctx.Peer.Send(body)

	if both {
		ctx.Src.Registry.Release(object.ID(id))
		ctx.Peer.Registry.Release(downstreamID)
	}
	return nil
}
