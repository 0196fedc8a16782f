// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package object

// EndpointID is the monotonic identifier of an endpoint. It is a bare
// integer here, not a pointer to an endpoint.Endpoint, so that object
// never imports endpoint: the dependency runs endpoint -> object, not
// back.
type EndpointID uint64

// Side distinguishes which half of a destroy has been observed, and
// which numeric range an endpoint allocates new-ids from.
type Side uint8

const (
	// SideServer: the upstream-facing half of a connection (the real
	// compositor, or — from the proxy's perspective on its one upstream
	// connection — the peer the proxy is a client of).
	SideServer Side = 1 << iota
	// SideClient: the downstream-facing half (a real client app, or —
	// from the proxy's perspective on a downstream endpoint — the peer
	// the proxy is acting as compositor for).
	SideClient
)

// Object is a live Wayland protocol object. Its identity spans two
// independent numeric spaces: the id by which it is known on the
// upstream/server-facing endpoint (UpstreamID) and the id by which it is
// known on a particular downstream/client-facing endpoint (DownstreamID).
// A synthetic object has only a DownstreamID; an object the proxy created
// purely to talk to the compositor on its own behalf would have only an
// UpstreamID. At least one must be set while the object is live.
type Object struct {
	Interface string // the interface tag, e.g. "wl_surface"
	Version   uint32 // immutable after creation

	UpstreamID   ID // id on the upstream (compositor-facing) endpoint
	DownstreamID ID // id on the owning downstream (client-facing) endpoint

	// Owner identifies the downstream endpoint this object is visible to.
	// Zero for objects with no downstream presence (e.g. the upstream
	// wl_display itself, before any client exists).
	Owner EndpointID

	// ForwardToServer/ForwardToClient gate the default handler's relay
	// behavior. Both default to true; a policy layer clears one to have
	// messages in that direction dropped instead of relayed.
	ForwardToServer bool
	ForwardToClient bool

	Handler HandlerSlot

	destroyObserved Side
}

// NewObject constructs a live object with default forwarding flags set.
func NewObject(iface string, version uint32) *Object {
	return &Object{
		Interface:       iface,
		Version:         version,
		ForwardToServer: true,
		ForwardToClient: true,
	}
}

// ObserveDestroy records that side has seen this object destroyed.
// Returns true once both sides have observed it — the object's slot may
// only be released once this is true.
func (o *Object) ObserveDestroy(side Side) (bothObserved bool) {
	o.destroyObserved |= side
	return o.destroyObserved == SideServer|SideClient
}

// DestroyObservedBy reports whether side has already observed destruction.
func (o *Object) DestroyObservedBy(side Side) bool {
	return o.destroyObserved&side != 0
}

// Destroyed reports whether any side has observed destruction — useful
// for rejecting further requests/events against an object mid-teardown.
func (o *Object) Destroyed() bool {
	return o.destroyObserved != 0
}

// Live reports whether the object still has an id on at least one side.
func (o *Object) Live() bool {
	return o.UpstreamID.Valid() || o.DownstreamID.Valid()
}
