// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package globalmap implements the proxy's view of the compositor's
// global registry: which upstream globals get mirrored to downstream
// clients, which get hidden, and which are entirely proxy-invented. It
// also carries out the wl_registry.bind special case dispatch hands off,
// since deciding what a bind resolves to is exactly this classification.
package globalmap

import (
	"errors"

	"github.com/wl-proxy/wlproxy/dispatch"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

// Global is one entry from the compositor's registry, or one the proxy
// has invented.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Disposition is what the proxy does with one global when deciding
// whether, and how, to expose it to a downstream client.
type Disposition int

const (
	// Forward mirrors the global unchanged; binding it forwards the
	// bind request upstream.
	Forward Disposition = iota
	// Ignore hides the global from every downstream client entirely.
	Ignore
	// Synthetic hides the upstream global from downstream clients;
	// binding it is satisfied locally via Policy.SyntheticBind and never
	// reaches the compositor.
	Synthetic
)

var (
	ErrUnknownGlobal = errors.New("globalmap: bind of an unadvertised global")
	ErrGlobalIgnored = errors.New("globalmap: bind of an ignored global")
)

// Policy is the classification seam an overlying application implements.
type Policy interface {
	// ClassifyGlobal decides how g should be presented downstream.
	ClassifyGlobal(g Global) Disposition
	// SyntheticBind constructs the proxy-local object backing a
	// Synthetic global's bind. obj is already registered under newID on
	// the binding endpoint's registry; SyntheticBind only needs to wire
	// up its behavior (install a handler, send an initial event, etc).
	SyntheticBind(g Global, obj *object.Object, ep *endpoint.Endpoint) error
}

// VersionCapper is optionally implemented by a Policy that wants a
// forwarded global exposed downstream at a lower version than the
// compositor advertises. A return of 0 leaves the upstream version
// unchanged.
type VersionCapper interface {
	CapGlobalVersion(g Global) uint32
}

// Map tracks the compositor's globals and this proxy's synthetic ones,
// and answers wl_registry.bind on behalf of the dispatcher.
type Map struct {
	policy Policy

	upstream   map[uint32]Global
	synthetic  map[uint32]Global
	nextSynth  uint32
	upRegistry *object.Object // the proxy's single shared upstream wl_registry object
}

// syntheticNameBase is chosen well above any realistic compositor global
// count so synthetic names never collide with upstream ones (the global
// namespace is the compositor's; this proxy reserves the top of it for
// its own use).
const syntheticNameBase = 1 << 30

// New constructs a Map bound to policy and the proxy's single shared
// upstream wl_registry object (obtained once via wl_display.get_registry
// during startup).
func New(policy Policy, upstreamRegistry *object.Object) *Map {
	return &Map{
		policy:     policy,
		upstream:   make(map[uint32]Global),
		synthetic:  make(map[uint32]Global),
		nextSynth:  syntheticNameBase,
		upRegistry: upstreamRegistry,
	}
}

// OnUpstreamGlobal records one wl_registry.global event received from
// the real compositor.
func (m *Map) OnUpstreamGlobal(g Global) {
	m.upstream[g.Name] = g
}

// OnUpstreamGlobalRemove records one wl_registry.global_remove event.
func (m *Map) OnUpstreamGlobalRemove(name uint32) {
	delete(m.upstream, name)
}

// AddSynthetic registers a proxy-invented global with no upstream
// counterpart, returning the name it will be advertised under.
func (m *Map) AddSynthetic(iface string, version uint32) Global {
	name := m.nextSynth
	m.nextSynth++
	g := Global{Name: name, Interface: iface, Version: version}
	m.synthetic[name] = g
	return g
}

// RemoveSynthetic withdraws a previously added synthetic global.
func (m *Map) RemoveSynthetic(name uint32) {
	delete(m.synthetic, name)
}

// AdvertiseTo emits one wl_registry.global event per visible global
// (every Forward-classified upstream global, plus every synthetic one) to a
// freshly-bound downstream wl_registry, the way the real compositor
// backfills a new client's registry.
func (m *Map) AdvertiseTo(registryObjID uint32, ep *endpoint.Endpoint) error {
	for _, g := range m.upstream {
		// Ignore hides the global outright; Synthetic hides the real
		// upstream entry too — the proxy-invented replacement (if any)
		// is what gets advertised, via the m.synthetic loop below.
		switch m.policy.ClassifyGlobal(g) {
		case Ignore, Synthetic:
			continue
		}
		g.Version = m.cappedVersion(g, g.Version)
		if err := sendGlobalEvent(registryObjID, g, ep); err != nil {
			return err
		}
	}
	for _, g := range m.synthetic {
		if err := sendGlobalEvent(registryObjID, g, ep); err != nil {
			return err
		}
	}
	return nil
}

func sendGlobalEvent(registryObjID uint32, g Global, ep *endpoint.Endpoint) error {
	w := wire.NewWriter(registryObjID, 0, ep.OutboundFds())
	w.Uint32(g.Name)
	w.String(g.Interface, false)
	w.Uint32(g.Version)
	body, err := w.Finish()
	if err != nil {
		return err
	}
	ep.Send(body)
	return nil
}

// Bind is wired in as dispatch.Context.Bind: it resolves
// name to a known global, applies its disposition, and either forwards
// the bind upstream with a freshly allocated upstream id, or satisfies
// it entirely locally via Policy.SyntheticBind.
func (m *Map) Bind(registryObj *object.Object, name uint32, iface string, version uint32, newID uint32, ctx *dispatch.Context) error {
	if g, ok := m.upstream[name]; ok {
		switch m.policy.ClassifyGlobal(g) {
		case Ignore:
			return ErrGlobalIgnored
		case Synthetic:
			// An upstream global the policy wants replaced, not mirrored:
			// bind it the same way as a purely proxy-invented global,
			// entirely locally, never touching the real one.
			return m.bindSynthetic(g, iface, version, newID, ctx)
		}
		return m.bindForward(g, iface, version, newID, ctx)
	}
	if g, ok := m.synthetic[name]; ok {
		return m.bindSynthetic(g, iface, version, newID, ctx)
	}
	return ErrUnknownGlobal
}

// cappedVersion applies the policy's version cap, if any, to v for g.
func (m *Map) cappedVersion(g Global, v uint32) uint32 {
	c, ok := m.policy.(VersionCapper)
	if !ok {
		return v
	}
	if limit := c.CapGlobalVersion(g); limit != 0 && limit < v {
		return limit
	}
	return v
}

func (m *Map) bindForward(g Global, iface string, version uint32, newID uint32, ctx *dispatch.Context) error {
	// The client only ever saw the capped version advertised, so a
	// higher request here is clamped rather than trusted.
	version = m.cappedVersion(g, version)
	obj := object.NewObject(iface, version)
	if err := ctx.Src.Registry.Reserve(object.ID(newID), obj); err != nil {
		return err
	}
	upstreamID, err := ctx.Peer.Registry.Allocate(obj)
	if err != nil {
		return err
	}
	if ctx.OnObjectCreated != nil {
		ctx.OnObjectCreated(obj)
	}

	w := wire.NewWriter(uint32(object.IDOn(ctx.Peer.Registry, m.upRegistry)), 0, ctx.Peer.OutboundFds())
	w.Uint32(g.Name)
	w.String(iface, false)
	w.Uint32(version)
	w.NewID(uint32(upstreamID))
	body, err := w.Finish()
	if err != nil {
		return err
	}
	ctx.Peer.Send(body)
	return nil
}

func (m *Map) bindSynthetic(g Global, iface string, version uint32, newID uint32, ctx *dispatch.Context) error {
	obj := object.NewObject(iface, version)
	if err := ctx.Src.Registry.Reserve(object.ID(newID), obj); err != nil {
		return err
	}
	if ctx.OnObjectCreated != nil {
		ctx.OnObjectCreated(obj)
	}
	if m.policy == nil {
		return nil
	}
	return m.policy.SyntheticBind(g, obj, ctx.Src)
}
