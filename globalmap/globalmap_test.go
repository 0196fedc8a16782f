// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package globalmap

import (
	"errors"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/wl-proxy/wlproxy/dispatch"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/wire"
)

func socketPair(t *testing.T) (a, b int) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			t.Fatalf("nonblock: %v", err)
		}
	}
	return fds[0], fds[1]
}

type stubPolicy struct {
	disposition   Disposition
	syntheticCall *Global
}

func (p *stubPolicy) ClassifyGlobal(g Global) Disposition { return p.disposition }

func (p *stubPolicy) SyntheticBind(g Global, obj *object.Object, ep *endpoint.Endpoint) error {
	p.syntheticCall = &g
	return nil
}

type cappedPolicy struct {
	stubPolicy
	limit uint32
}

func (p *cappedPolicy) CapGlobalVersion(Global) uint32 { return p.limit }

func TestAdvertiseToSkipsIgnoredAndIncludesSynthetic(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &stubPolicy{disposition: Forward}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 1, Interface: "wl_compositor", Version: 6})
	m.OnUpstreamGlobal(Global{Name: 2, Interface: "wl_shm", Version: 1})
	m.AddSynthetic("wlproxy_hidden_gadget", 1)

	aFd, bFd := socketPair(t)
	ep := endpoint.New(aFd, endpoint.Downstream, 1, object.NewDownstreamRegistry(), nil)
	defer ep.Close()
	obs := endpoint.New(bFd, endpoint.Downstream, 2, object.NewDownstreamRegistry(), nil)
	defer obs.Close()

	policy.disposition = Ignore // hide every upstream global now
	if err := m.AdvertiseTo(4, ep); err != nil {
		t.Fatalf("advertise: %v", err)
	}
	if _, err := ep.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	msgs, err := obs.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected only the synthetic global advertised, got %d messages", len(msgs))
	}
	r := wire.NewReader(msgs[0].Body, obs.InboundFds())
	name, err := r.Uint32()
	if err != nil {
		t.Fatalf("uint32: %v", err)
	}
	if name < syntheticNameBase {
		t.Fatalf("expected a synthetic name, got %d", name)
	}
}

func TestAdvertiseToSkipsSyntheticUpstreamGlobal(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &stubPolicy{disposition: Synthetic}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 1, Interface: "xdg_wm_base", Version: 3})

	aFd, bFd := socketPair(t)
	ep := endpoint.New(aFd, endpoint.Downstream, 1, object.NewDownstreamRegistry(), nil)
	defer ep.Close()
	obs := endpoint.New(bFd, endpoint.Downstream, 2, object.NewDownstreamRegistry(), nil)
	defer obs.Close()

	if err := m.AdvertiseTo(4, ep); err != nil {
		t.Fatalf("advertise: %v", err)
	}
	if _, err := ep.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	msgs, err := obs.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected a Synthetic-classified upstream global to stay hidden, got %d messages", len(msgs))
	}
}

func TestBindSyntheticUpstreamGlobalRoutesToPolicy(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &stubPolicy{disposition: Synthetic}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 9, Interface: "xdg_wm_base", Version: 3})

	downReg := object.NewDownstreamRegistry()
	registryObj := object.NewObject("wl_registry", 1)
	down := endpoint.New(-1, endpoint.Downstream, 1, downReg, nil)
	up := endpoint.New(-1, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	if err := m.Bind(registryObj, 9, "xdg_wm_base", 3, 70, ctx); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if policy.syntheticCall == nil {
		t.Fatalf("expected a Synthetic classification of an upstream global to route to SyntheticBind")
	}
	created, err := downReg.Lookup(70)
	if err != nil {
		t.Fatalf("lookup created object: %v", err)
	}
	if created.UpstreamID.Valid() {
		t.Fatalf("a Synthetic-routed bind must never touch the real upstream global, got an upstream id")
	}
}

func TestBindForwardTranslatesToUpstreamRegistryID(t *testing.T) {
	upReg := object.NewUpstreamRegistry()
	upRegistryObj := object.NewObject("wl_registry", 1)
	if _, err := upReg.Allocate(upRegistryObj); err != nil {
		t.Fatalf("allocate upstream registry: %v", err)
	}

	policy := &stubPolicy{disposition: Forward}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 7, Interface: "wl_compositor", Version: 6})

	downReg := object.NewDownstreamRegistry()
	downRegistryObj := object.NewObject("wl_registry", 1)
	_ = downReg.Reserve(2, downRegistryObj)

	upFd, obsFd := socketPair(t)
	up := endpoint.New(upFd, endpoint.Upstream, 1, upReg, nil)
	defer up.Close()
	obs := endpoint.New(obsFd, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)
	defer obs.Close()
	down := endpoint.New(-1, endpoint.Downstream, 3, downReg, nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	if err := m.Bind(downRegistryObj, 7, "wl_compositor", 6, 55, ctx); err != nil {
		t.Fatalf("bind: %v", err)
	}

	created, err := downReg.Lookup(55)
	if err != nil {
		t.Fatalf("lookup created object: %v", err)
	}
	if created.Interface != "wl_compositor" {
		t.Fatalf("expected wl_compositor, got %s", created.Interface)
	}
	if !created.UpstreamID.Valid() {
		t.Fatalf("expected created object to have an upstream id")
	}

	if _, err := up.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	msgs, err := obs.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected bind forwarded upstream, got %d", len(msgs))
	}
	if object.ID(msgs[0].Header.ObjectID) != upRegistryObj.UpstreamID {
		t.Fatalf("forwarded bind addressed to %d, want upstream registry id %d", msgs[0].Header.ObjectID, upRegistryObj.UpstreamID)
	}
	r := wire.NewReader(msgs[0].Body, obs.InboundFds())
	name, iface, version, newID, err := r.BindArgs()
	if err != nil {
		t.Fatalf("bind args: %v", err)
	}
	if name != 7 || iface != "wl_compositor" || version != 6 {
		t.Fatalf("unexpected forwarded bind fields: name=%d iface=%s version=%d", name, iface, version)
	}
	if object.ID(newID) != created.UpstreamID {
		t.Fatalf("forwarded new_id %d does not match allocated upstream id %d", newID, created.UpstreamID)
	}
}

func TestAdvertiseToAppliesVersionCap(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &cappedPolicy{stubPolicy: stubPolicy{disposition: Forward}, limit: 4}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 1, Interface: "wl_compositor", Version: 6})

	aFd, bFd := socketPair(t)
	ep := endpoint.New(aFd, endpoint.Downstream, 1, object.NewDownstreamRegistry(), nil)
	defer ep.Close()
	obs := endpoint.New(bFd, endpoint.Downstream, 2, object.NewDownstreamRegistry(), nil)
	defer obs.Close()

	if err := m.AdvertiseTo(4, ep); err != nil {
		t.Fatalf("advertise: %v", err)
	}
	if _, err := ep.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	msgs, err := obs.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 global advertised, got %d", len(msgs))
	}
	r := wire.NewReader(msgs[0].Body, obs.InboundFds())
	if _, err := r.Uint32(); err != nil {
		t.Fatalf("name: %v", err)
	}
	if _, err := r.String(false, true); err != nil {
		t.Fatalf("interface: %v", err)
	}
	version, err := r.Uint32()
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if version != 4 {
		t.Fatalf("expected the advertised version capped to 4, got %d", version)
	}
}

func TestBindForwardClampsVersionToCap(t *testing.T) {
	upReg := object.NewUpstreamRegistry()
	upRegistryObj := object.NewObject("wl_registry", 1)
	if _, err := upReg.Allocate(upRegistryObj); err != nil {
		t.Fatalf("allocate upstream registry: %v", err)
	}

	policy := &cappedPolicy{stubPolicy: stubPolicy{disposition: Forward}, limit: 4}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 7, Interface: "wl_compositor", Version: 6})

	downReg := object.NewDownstreamRegistry()
	downRegistryObj := object.NewObject("wl_registry", 1)
	_ = downReg.Reserve(2, downRegistryObj)

	upFd, obsFd := socketPair(t)
	up := endpoint.New(upFd, endpoint.Upstream, 1, upReg, nil)
	defer up.Close()
	obs := endpoint.New(obsFd, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)
	defer obs.Close()
	down := endpoint.New(-1, endpoint.Downstream, 3, downReg, nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	if err := m.Bind(downRegistryObj, 7, "wl_compositor", 6, 55, ctx); err != nil {
		t.Fatalf("bind: %v", err)
	}

	created, err := downReg.Lookup(55)
	if err != nil {
		t.Fatalf("lookup created object: %v", err)
	}
	if created.Version != 4 {
		t.Fatalf("expected the bound object clamped to version 4, got %d", created.Version)
	}

	if _, err := up.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	msgs, err := obs.PollRead()
	if err != nil {
		t.Fatalf("poll read: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected bind forwarded upstream, got %d", len(msgs))
	}
	r := wire.NewReader(msgs[0].Body, obs.InboundFds())
	_, _, version, _, err := r.BindArgs()
	if err != nil {
		t.Fatalf("bind args: %v", err)
	}
	if version != 4 {
		t.Fatalf("expected the forwarded bind clamped to version 4, got %d", version)
	}
}

func TestBindIgnoredGlobal(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &stubPolicy{disposition: Ignore}
	m := New(policy, upRegistryObj)
	m.OnUpstreamGlobal(Global{Name: 3, Interface: "zwlr_layer_shell_v1", Version: 4})

	downReg := object.NewDownstreamRegistry()
	registryObj := object.NewObject("wl_registry", 1)
	down := endpoint.New(-1, endpoint.Downstream, 1, downReg, nil)
	up := endpoint.New(-1, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	err := m.Bind(registryObj, 3, "zwlr_layer_shell_v1", 4, 55, ctx)
	if !errors.Is(err, ErrGlobalIgnored) {
		t.Fatalf("expected ErrGlobalIgnored, got %v", err)
	}
}

func TestBindSyntheticDelegatesToPolicy(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	policy := &stubPolicy{}
	m := New(policy, upRegistryObj)
	g := m.AddSynthetic("wlproxy_hidden_gadget", 1)

	downReg := object.NewDownstreamRegistry()
	registryObj := object.NewObject("wl_registry", 1)
	down := endpoint.New(-1, endpoint.Downstream, 1, downReg, nil)
	up := endpoint.New(-1, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	if err := m.Bind(registryObj, g.Name, "wlproxy_hidden_gadget", 1, 60, ctx); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if policy.syntheticCall == nil {
		t.Fatalf("expected SyntheticBind to be called")
	}
	created, err := downReg.Lookup(60)
	if err != nil {
		t.Fatalf("lookup created object: %v", err)
	}
	if created.UpstreamID.Valid() {
		t.Fatalf("synthetic object should not have an upstream id")
	}
}

func TestBindUnknownGlobal(t *testing.T) {
	upRegistryObj := object.NewObject("wl_registry", 1)
	m := New(&stubPolicy{disposition: Forward}, upRegistryObj)

	downReg := object.NewDownstreamRegistry()
	registryObj := object.NewObject("wl_registry", 1)
	down := endpoint.New(-1, endpoint.Downstream, 1, downReg, nil)
	up := endpoint.New(-1, endpoint.Upstream, 2, object.NewUpstreamRegistry(), nil)

	ctx := &dispatch.Context{Src: down, Peer: up}
	err := m.Bind(registryObj, 999, "wl_compositor", 6, 55, ctx)
	if !errors.Is(err, ErrUnknownGlobal) {
		t.Fatalf("expected ErrUnknownGlobal, got %v", err)
	}
}
