// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package proxystate

import (
	"errors"
	"strconv"

	"github.com/wl-proxy/wlproxy/adapter"
	"github.com/wl-proxy/wlproxy/dispatch"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/globalmap"
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
	"github.com/wl-proxy/wlproxy/wlog"
)

// handleBootstrapRegistry is the handler installed on the proxy's own
// upstream wl_registry object: it feeds every global/
// global_remove event straight into the global mapper instead of
// forwarding it anywhere — this object belongs to the proxy itself, not
// to any one downstream client, so there is nothing to forward to.
func (s *State) handleBootstrapRegistry(_ *dispatch.Context, _ *object.Object, msg adapter.MessageSpec, vals []adapter.Value) (bool, error) {
	switch msg.Name {
	case "global":
		s.globals.OnUpstreamGlobal(globalmap.Global{Name: vals[0].U, Interface: vals[1].S, Version: vals[2].U})
	case "global_remove":
		s.globals.OnUpstreamGlobalRemove(vals[0].U)
	}
	return false, nil
}

// handleBootstrapDone fires once, when the proxy's own initial sync
// settles — the global set is complete from this point on.
func (s *State) handleBootstrapDone(_ *dispatch.Context, _ *object.Object, _ adapter.MessageSpec, _ []adapter.Value) (bool, error) {
	s.bootstrapped = true
	return false, nil
}

// handleClientDisplay is installed on every downstream client's wl_display
// object. Every request forwards generically except get_registry, which
// is intercepted: the proxy never issues a second upstream
// get_registry on a client's behalf — it already has the full global set
// from its own bootstrap registry, and answers the client locally from
// that (via globalmap.Map.AdvertiseTo).
func (s *State) handleClientDisplay(ctx *dispatch.Context, _ *object.Object, msg adapter.MessageSpec, vals []adapter.Value) (bool, error) {
	if msg.Name != "get_registry" {
		return true, nil
	}

	newID := object.ID(vals[0].U)
	registryObj := vals[0].Obj
	if err := ctx.Src.Registry.Reserve(newID, registryObj); err != nil {
		return false, err
	}
	if ctx.OnObjectCreated != nil {
		ctx.OnObjectCreated(registryObj)
	}
	if err := s.globals.AdvertiseTo(uint32(newID), ctx.Src); err != nil {
		return false, err
	}
	return false, nil
}

// handleDispatchError logs a one-line diagnostic, and for every fatal
// kind (everything classifyDispatchError does not call lifecycle) sends
// the offender a wl_display.error event and marks the endpoint dying so
// the loop tears it down on the next reap.
// Lifecycle errors (a handler re-entering its own borrowed slot) are not
// endpoint-fatal — they are this message's problem, not the connection's.
func (s *State) handleDispatchError(ep *endpoint.Endpoint, raw endpoint.RawMessage, err error) {
	kind, fatal := classifyDispatchError(err)
	wlog.Protocol(uint64(ep.ID), kind, interfaceNameFor(ep, raw), strconv.Itoa(int(raw.Header.Opcode)), err)
	if fatal {
		sendDisplayError(ep, raw.Header.ObjectID, kind, err)
		ep.MarkDying(err)
	}
}

// sendDisplayError encodes and flushes a wl_display.error event to the
// offending endpoint, so the offender hears why it is being cut off
// before the connection closes. It must run before MarkDying: Flush
// is a no-op on an endpoint already in the dying state. raw's object id
// is already in ep's own numbering, since that is the side the message
// was read from, so it needs no translation before naming it as the
// offending object.
func sendDisplayError(ep *endpoint.Endpoint, objectID uint32, kind wlog.ErrorKind, err error) {
	w := wire.NewWriter(uint32(displayObjectID), 0, nil) // wl_display.error is opcode 0
	w.Object(objectID)
	w.Uint32(displayErrorCode(kind))
	w.String(err.Error(), false)
	body, ferr := w.Finish()
	if ferr != nil {
		return
	}
	ep.Send(body)
	_, _ = ep.Flush()
}

// displayErrorCode maps the closed set of error kinds onto wl_display's
// fixed error-code space, the same way a real compositor distinguishes
// invalid_object/invalid_method/no_memory/implementation.
func displayErrorCode(kind wlog.ErrorKind) uint32 {
	switch kind {
	case "wire_malformation", "identity":
		return 0 // invalid_object
	case "schema_violation":
		return 1 // invalid_method
	case "resource_exhaustion":
		return 2 // no_memory
	default:
		return 3 // implementation
	}
}

func interfaceNameFor(ep *endpoint.Endpoint, raw endpoint.RawMessage) string {
	obj, lookupErr := ep.Registry.Lookup(object.ID(raw.Header.ObjectID))
	if lookupErr != nil {
		return "unknown"
	}
	return obj.Interface
}

// classifyDispatchError maps a dispatch-returned error onto the closed
// set of error kinds, and decides whether it is fatal to the endpoint it
// was observed on.
func classifyDispatchError(err error) (wlog.ErrorKind, bool) {
	switch {
	case errors.Is(err, wire.ErrTruncated),
		errors.Is(err, wire.ErrBadAlignment),
		errors.Is(err, wire.ErrOversizeMessage),
		errors.Is(err, wire.ErrWrongMessageSize),
		errors.Is(err, wire.ErrTrailingBytes),
		errors.Is(err, wire.ErrMissingArgument),
		errors.Is(err, wire.ErrBadUtf8):
		return "wire_malformation", true
	case errors.Is(err, dispatch.ErrUnknownOpcode),
		errors.Is(err, adapter.ErrUnknownInterface),
		errors.Is(err, adapter.ErrUnknownMessageID):
		return "schema_violation", true
	case errors.Is(err, object.ErrUnknownObject),
		errors.Is(err, object.ErrDuplicateID),
		errors.Is(err, object.ErrWrongType),
		errors.Is(err, object.ErrNoIDOnPeer),
		errors.Is(err, object.ErrArgNoClientID):
		return "identity", true
	case errors.Is(err, adapter.ErrVersionTooLow),
		errors.Is(err, globalmap.ErrGlobalIgnored),
		errors.Is(err, globalmap.ErrUnknownGlobal):
		return "policy_rejection", true
	case errors.Is(err, object.ErrHandlerBorrowed),
		errors.Is(err, object.ErrAlreadyDestroyed),
		errors.Is(err, object.ErrNoHandler):
		return "lifecycle", false
	case errors.Is(err, object.ErrIDSpaceExhaust),
		errors.Is(err, endpoint.ErrTooManyFds),
		errors.Is(err, endpoint.ErrMissingFd):
		return "resource_exhaustion", true
	default:
		return "unknown", true
	}
}
