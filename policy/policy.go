// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package policy is the hook surface an overlying application — e.g. a
// tray-synthesis layer — plugs into without the core depending on its
// semantics: global classification, synthetic binds, and per-object
// handler installation.
package policy

import (
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/globalmap"
	"github.com/wl-proxy/wlproxy/object"
)

// Hooks is the full policy surface a caller of proxystate.New installs.
// It embeds globalmap.Policy directly (ClassifyGlobal/SyntheticBind) so
// a Hooks value can be handed straight to globalmap.New, plus the
// OnObjectCreated hook dispatch.Context exposes for every object a
// forwarded message creates. An implementation may additionally satisfy
// globalmap.VersionCapper to expose forwarded globals at a reduced
// version.
type Hooks interface {
	globalmap.Policy

	// OnObjectCreated is called once per freshly created object, right
	// after it is registered on both sides (or, for a synthetic bind,
	// on the owning downstream side only) but before any message
	// referencing it is forwarded. Implementations install a custom
	// object.HandlerSlot here when they want non-default dispatch for
	// this object; the zero-value behavior (doing nothing) leaves the
	// object on the default forwarding path.
	OnObjectCreated(obj *object.Object)
}

// NoOp is the zero-behavior Hooks implementation: every global forwards
// unchanged, no synthetic globals exist, and no object ever gets a
// custom handler. cmd/wlproxy uses this as its baseline, and it is also
// the baseline the round-trip-identity tests are checked against.
type NoOp struct{}

var _ Hooks = NoOp{}

// ClassifyGlobal always forwards.
func (NoOp) ClassifyGlobal(globalmap.Global) globalmap.Disposition { return globalmap.Forward }

// SyntheticBind is never called for NoOp (it never advertises a
// synthetic global), but is implemented to satisfy globalmap.Policy.
func (NoOp) SyntheticBind(globalmap.Global, *object.Object, *endpoint.Endpoint) error { return nil }

// OnObjectCreated installs no custom handler; the object stays on the
// default forwarding path.
func (NoOp) OnObjectCreated(*object.Object) {}
