// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package object

// Registry is the per-endpoint id -> Object table. There is exactly one
// Registry per endpoint: one shared Registry for the single upstream connection
// (keyed by Object.UpstreamID, across every downstream client's
// forwarded objects), and one Registry per downstream connection (keyed
// by Object.DownstreamID, scoped to that one client).
//
// Which field of Object a Registry indexes by is fixed at construction
// via keyOf; which numeric range it draws fresh ids from is fixed by
// Role, following the Wayland convention that whichever side of a
// connection is the "client" allocates ids from the client range and
// whichever side is the "server" allocates from the server range.
// On the proxy's single upstream connection the
// proxy plays the client, so an upstream Registry has Role ==
// SideClient; on a downstream connection the proxy plays the server
// (compositor), so a downstream Registry has Role == SideServer.
type Registry struct {
	Role Side

	byID map[ID]*Object
	next ID // next candidate for Allocate's linear scan

	keyOf func(*Object) ID
	setID func(*Object, ID)
}

// NewUpstreamRegistry returns the registry for the one upstream endpoint,
// keyed by UpstreamID, allocating fresh proxy-originated ids from the
// client range (the proxy is the compositor's client).
func NewUpstreamRegistry() *Registry {
	return &Registry{
		Role: SideClient,
		byID: make(map[ID]*Object),
		next: ClientIDMin,
		keyOf: func(o *Object) ID { return o.UpstreamID },
		setID: func(o *Object, id ID) { o.UpstreamID = id },
	}
}

// NewDownstreamRegistry returns the registry for one downstream client
// endpoint, keyed by DownstreamID, allocating fresh proxy-originated ids
// from the server range (the proxy is that client's compositor).
func NewDownstreamRegistry() *Registry {
	return &Registry{
		Role: SideServer,
		byID: make(map[ID]*Object),
		next: ServerIDMin,
		keyOf: func(o *Object) ID { return o.DownstreamID },
		setID: func(o *Object, id ID) { o.DownstreamID = id },
	}
}

// Lookup resolves id to its Object, or ErrUnknownObject if none is live.
func (r *Registry) Lookup(id ID) (*Object, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, ErrUnknownObject
	}
	return o, nil
}

// Reserve records obj under the exact id the peer supplied (the
// client-assigned new-id path). Fails with ErrDuplicateID if id is
// already live on this registry — an id is never reused on an endpoint
// before the peer confirms delete_id for it.
func (r *Registry) Reserve(id ID, obj *Object) error {
	if _, exists := r.byID[id]; exists {
		return ErrDuplicateID
	}
	r.setID(obj, id)
	r.byID[id] = obj
	return nil
}

// Allocate picks a fresh id in this registry's role-appropriate range,
// records obj under it, and returns the id (the server-assigned /
// proxy-assigned new-id path).
func (r *Registry) Allocate(obj *Object) (ID, error) {
	lo, hi := r.idRange()
	start := r.next
	for {
		candidate := r.next
		if _, taken := r.byID[candidate]; !taken {
			r.advance(lo, hi)
			r.setID(obj, candidate)
			r.byID[candidate] = obj
			return candidate, nil
		}
		r.advance(lo, hi)
		if r.next == start {
			return 0, ErrIDSpaceExhaust
		}
	}
}

func (r *Registry) idRange() (lo, hi ID) {
	if r.Role == SideClient {
		return ClientIDMin, ClientIDMax
	}
	return ServerIDMin, ServerIDMax
}

func (r *Registry) advance(lo, hi ID) {
	if r.next >= hi {
		r.next = lo
		return
	}
	r.next++
}

// Release removes id from the table. Callers must only call this once
// both sides have confirmed destruction; it does not check that itself
// because the confirmation sequencing is dispatch-level policy, not a
// registry-level invariant.
func (r *Registry) Release(id ID) {
	delete(r.byID, id)
}

// IDOn returns the id obj is known by within reg's id space: the
// upstream-numbered id for a client-role (upstream) registry, the
// downstream-numbered id for a server-role (downstream) registry. Used
// wherever a message or bind response is re-addressed to the other side
// of a forward.
func IDOn(reg *Registry, obj *Object) ID {
	if reg.Role == SideClient {
		return obj.UpstreamID
	}
	return obj.DownstreamID
}

// Contains reports whether id currently has a live entry.
func (r *Registry) Contains(id ID) bool {
	_, ok := r.byID[id]
	return ok
}

// Owned returns every live object whose Owner is owner. Used by the event loop's disconnect
// cascade to find what a departing downstream client left behind in the
// shared upstream registry.
func (r *Registry) Owned(owner EndpointID) []*Object {
	var out []*Object
	for _, o := range r.byID {
		if o.Owner == owner {
			out = append(out, o)
		}
	}
	return out
}

// Len reports the number of live objects, for tests and diagnostics.
func (r *Registry) Len() int { return len(r.byID) }
