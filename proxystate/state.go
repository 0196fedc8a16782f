// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package proxystate implements the proxy's single-threaded event loop:
// the one upstream connection, every downstream client connection, the
// global mapper's bootstrap handshake, and the poll/dispatch/flush/reap
// tick that drives all of it.
//
// It is the one place mutable state lives outside an Endpoint or Object:
// everything is reachable only from this loop, polled via
// golang.org/x/sys/unix.EpollWait/EpollCtl, so the single-borrow handler
// discipline is the only guard needed.
package proxystate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/wl-proxy/wlproxy/dispatch"
	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/globalmap"
	"github.com/wl-proxy/wlproxy/object"
	"github.com/wl-proxy/wlproxy/policy"
	"github.com/wl-proxy/wlproxy/wire"
	"github.com/wl-proxy/wlproxy/wlog"
)

// displayObjectID is the Wayland-fixed object id of wl_display, the one
// object every endpoint (upstream and every downstream client) starts
// out with already registered.
const displayObjectID object.ID = 1

// errReceiverNoClient classifies an upstream event whose target object
// has no live downstream client to receive it. The event is dropped,
// never fatal to the upstream connection.
var errReceiverNoClient = errors.New("proxystate: event receiver has no live downstream client")

// State owns the upstream endpoint, every downstream client endpoint,
// the global mapper, and the epoll fd that drives the event loop.
type State struct {
	epfd     int
	listenFd int

	upstream     *endpoint.Endpoint
	upDisplay    *object.Object // the one canonical upstream-side wl_display
	registry     *object.Object // the proxy's own bootstrap wl_registry (upstream id 2)
	bootstrap    *object.Object // the proxy's own bootstrap wl_callback (upstream id 3)
	bootstrapped bool

	downstream map[object.EndpointID]*endpoint.Endpoint
	byFd       map[int]*endpoint.Endpoint

	flushing map[object.EndpointID]bool

	globals *globalmap.Map
	hooks   policy.Hooks

	nextID object.EndpointID

	done bool // set once the upstream endpoint dies
}

// New constructs a State around an already-connected, non-blocking
// upstream socket fd, and immediately runs the bootstrap handshake
// (get_registry + sync) so the global set is settled before any
// downstream client sees a registry.
func New(upstreamFd int, hooks policy.Hooks) (*State, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("proxystate: epoll_create1: %w", err)
	}
	s := &State{
		epfd:       epfd,
		listenFd:   -1,
		downstream: make(map[object.EndpointID]*endpoint.Endpoint),
		byFd:       make(map[int]*endpoint.Endpoint),
		flushing:   make(map[object.EndpointID]bool),
		hooks:      hooks,
		nextID:     1,
	}
	bootstrapOK := false
	defer func() {
		if !bootstrapOK {
			_ = unix.Close(epfd)
		}
	}()

	upReg := object.NewUpstreamRegistry()
	s.upDisplay = object.NewObject("wl_display", 1)
	if err := upReg.Reserve(displayObjectID, s.upDisplay); err != nil {
		return nil, fmt.Errorf("proxystate: reserve upstream wl_display: %w", err)
	}

	s.upstream = endpoint.New(upstreamFd, endpoint.Upstream, s.allocEndpointID(), upReg, s.queueFlush)
	s.byFd[upstreamFd] = s.upstream
	if err := s.register(upstreamFd, unix.EPOLLIN); err != nil {
		return nil, err
	}

	s.registry = object.NewObject("wl_registry", 1)
	s.registry.Handler.Set(dispatch.Handler(s.handleBootstrapRegistry))
	regID, err := upReg.Allocate(s.registry)
	if err != nil {
		return nil, fmt.Errorf("proxystate: allocate bootstrap registry: %w", err)
	}

	s.bootstrap = object.NewObject("wl_callback", 1)
	s.bootstrap.Handler.Set(dispatch.Handler(s.handleBootstrapDone))
	cbID, err := upReg.Allocate(s.bootstrap)
	if err != nil {
		return nil, fmt.Errorf("proxystate: allocate bootstrap callback: %w", err)
	}

	if err := s.sendDisplayRequest(1 /* get_registry */, uint32(regID)); err != nil {
		return nil, fmt.Errorf("proxystate: get_registry: %w", err)
	}
	if err := s.sendDisplayRequest(0 /* sync */, uint32(cbID)); err != nil {
		return nil, fmt.Errorf("proxystate: sync: %w", err)
	}

	s.globals = globalmap.New(hooks, s.registry)

	if err := s.pumpBootstrap(); err != nil {
		return nil, err
	}

	bootstrapOK = true
	return s, nil
}

func (s *State) allocEndpointID() object.EndpointID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *State) sendDisplayRequest(opcode uint16, newID uint32) error {
	w := wire.NewWriter(uint32(displayObjectID), opcode, s.upstream.OutboundFds())
	w.NewID(newID)
	body, err := w.Finish()
	if err != nil {
		return err
	}
	s.upstream.Send(body)
	_, err = s.upstream.Flush()
	return err
}

// pumpBootstrap blocks (via a short-timeout epoll wait loop, not a
// busy spin) until the initial sync's done event arrives, settling the
// global set. This is the only place State blocks
// a tick beyond one non-blocking pass — by construction it runs once,
// before any downstream client can possibly be connected.
func (s *State) pumpBootstrap() error {
	events := make([]unix.EpollEvent, 4)
	for !s.bootstrapped {
		// The bootstrap requests armed EPOLLOUT via queueFlush; disarm it
		// once drained so the wait below sleeps until input arrives.
		s.drainFlushQueue()
		n, err := unix.EpollWait(s.epfd, events, 5000)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("proxystate: epoll_wait during bootstrap: %w", err)
		}
		if n == 0 {
			return errors.New("proxystate: timed out waiting for compositor bootstrap roundtrip")
		}
		if err := s.pollUpstream(); err != nil {
			return err
		}
	}
	return nil
}

// Listen registers the proxy's downstream listening socket. Incoming
// connections are accepted and wired up on subsequent ticks.
func (s *State) Listen(fd int) error {
	s.listenFd = fd
	return s.register(fd, unix.EPOLLIN)
}

// Done reports whether the upstream endpoint has died, at which point
// the event loop exits.
func (s *State) Done() bool { return s.done }

// Run drives the event loop until the upstream endpoint dies.
func (s *State) Run() error {
	for !s.done {
		if err := s.Tick(-1); err != nil {
			return err
		}
	}
	return nil
}

// Tick runs one loop iteration: poll for readability, drain the flush
// queue, reap dying endpoints. timeoutMs
// is passed straight to epoll_wait (-1 blocks indefinitely).
func (s *State) Tick(timeoutMs int) error {
	events := make([]unix.EpollEvent, 16)
	n, err := unix.EpollWait(s.epfd, events, timeoutMs)
	if err != nil && !errors.Is(err, unix.EINTR) {
		return fmt.Errorf("proxystate: epoll_wait: %w", err)
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		switch {
		case fd == s.listenFd:
			s.acceptAll()
		case fd == s.upstream.Fd():
			if err := s.pollUpstream(); err != nil {
				wlog.Error().Err(err).Msg("upstream poll error")
			}
		default:
			if ep, ok := s.byFd[fd]; ok {
				s.pollDownstream(ep)
			}
		}
	}

	s.drainFlushQueue()
	s.reap()
	return nil
}

func (s *State) acceptAll() {
	for {
		fd, ok, err := endpoint.AcceptUnix(s.listenFd)
		if err != nil {
			wlog.Error().Err(err).Msg("accept downstream client")
			return
		}
		if !ok {
			return
		}
		s.addDownstream(fd)
	}
}

// addDownstream wires up a freshly accepted client connection: its own
// registry with wl_display pre-registered at id 1 (aliased to the
// canonical upstream wl_display for generic forwarding of requests
// other than get_registry, which is intercepted below).
func (s *State) addDownstream(fd int) {
	id := s.allocEndpointID()
	reg := object.NewDownstreamRegistry()

	display := object.NewObject("wl_display", 1)
	display.UpstreamID = displayObjectID
	if err := reg.Reserve(displayObjectID, display); err != nil {
		wlog.Error().Err(err).Msg("reserve client wl_display")
		_ = unix.Close(fd)
		return
	}
	display.Owner = id
	display.Handler.Set(dispatch.Handler(s.handleClientDisplay))

	ep := endpoint.New(fd, endpoint.Downstream, id, reg, s.queueFlush)
	s.downstream[id] = ep
	s.byFd[fd] = ep
	if err := s.register(fd, unix.EPOLLIN); err != nil {
		wlog.Error().Err(err).Msg("register client fd with epoll")
		delete(s.downstream, id)
		delete(s.byFd, fd)
		_ = ep.Close()
	}
}

func (s *State) pollDownstream(ep *endpoint.Endpoint) {
	msgs, err := ep.PollRead()
	if err != nil {
		wlog.Error().Err(err).Msg("downstream poll read")
		return
	}
	for _, raw := range msgs {
		ctx := s.newContext(ep, s.upstream)
		if err := dispatch.Dispatch(ctx, raw); err != nil {
			s.handleDispatchError(ep, raw, err)
		}
	}
}

func (s *State) pollUpstream() error {
	msgs, err := s.upstream.PollRead()
	if err != nil {
		return err
	}
	for _, raw := range msgs {
		peer, ok := s.peerForUpstreamRaw(raw)
		if !ok {
			// No live downstream owner to forward to. Legitimate for the
			// proxy's own bootstrap registry/callback, which
			// install their own absorbing handler and never reach
			// forwardMessage; anything else here names an object whose
			// owning client has already disconnected, so it is dropped
			// rather than risk forwarding through a nil Peer.
			if s.reapProxyDeleteID(raw) {
				continue
			}
			if !s.upstreamObjectSelfHandled(raw) {
				wlog.Protocol(uint64(s.upstream.ID), "receiver_no_client", interfaceNameFor(s.upstream, raw), strconv.Itoa(int(raw.Header.Opcode)), errReceiverNoClient)
				continue
			}
		}
		ctx := s.newContext(s.upstream, peer)
		if err := dispatch.Dispatch(ctx, raw); err != nil {
			s.handleDispatchError(s.upstream, raw, err)
		}
	}
	return nil
}

func (s *State) upstreamObjectSelfHandled(raw endpoint.RawMessage) bool {
	obj, err := s.upstream.Registry.Lookup(object.ID(raw.Header.ObjectID))
	if err != nil {
		return false
	}
	return obj.Handler.Get() != nil
}

// peerForUpstreamRaw resolves which downstream endpoint an upstream
// event should forward to by default: ordinarily the Owner of the
// addressed object, except for wl_display's own error/delete_id events,
// which are always addressed to wl_display itself (id 1)
// while naming their real target object in the first argument word.
func (s *State) peerForUpstreamRaw(raw endpoint.RawMessage) (*endpoint.Endpoint, bool) {
	targetID := object.ID(raw.Header.ObjectID)
	if targetID == displayObjectID && (raw.Header.Opcode == 0 || raw.Header.Opcode == 1) && len(raw.Body) >= 4 {
		targetID = object.ID(binary.LittleEndian.Uint32(raw.Body[0:4]))
	}
	obj, err := s.upstream.Registry.Lookup(targetID)
	if err != nil || obj.Owner == 0 {
		return nil, false
	}
	ep, ok := s.downstream[obj.Owner]
	return ep, ok
}

// reapProxyDeleteID retires a delete_id confirmation for an object with
// no downstream owner — one the proxy created on its own behalf, like
// the bootstrap sync's wl_callback. There is no client to relay the
// confirmation to; the upstream slot is simply released so the id can
// circulate again.
func (s *State) reapProxyDeleteID(raw endpoint.RawMessage) bool {
	if object.ID(raw.Header.ObjectID) != displayObjectID || raw.Header.Opcode != 1 || len(raw.Body) < 4 {
		return false
	}
	id := object.ID(binary.LittleEndian.Uint32(raw.Body[0:4]))
	obj, err := s.upstream.Registry.Lookup(id)
	if err != nil || obj.Owner != 0 {
		return false
	}
	obj.ObserveDestroy(object.SideServer)
	obj.ObserveDestroy(object.SideClient)
	s.upstream.Registry.Release(id)
	return true
}

// newContext builds a dispatch.Context wired with this State's globals
// and policy hooks. OnObjectCreated tags every freshly forwarded object
// with the downstream client that owns it before handing it to the
// policy layer.
func (s *State) newContext(src, peer *endpoint.Endpoint) *dispatch.Context {
	ctx := &dispatch.Context{Src: src, Peer: peer, Bind: s.globals.Bind}
	ctx.OnObjectCreated = func(obj *object.Object) {
		if ctx.Src.Kind == endpoint.Downstream {
			obj.Owner = ctx.Src.ID
		} else if ctx.Peer != nil {
			obj.Owner = ctx.Peer.ID
		}
		s.hooks.OnObjectCreated(obj)
	}
	return ctx
}

func (s *State) queueFlush(ep *endpoint.Endpoint) {
	if s.flushing[ep.ID] {
		return
	}
	s.flushing[ep.ID] = true
	if err := s.modify(ep.Fd(), unix.EPOLLIN|unix.EPOLLOUT); err != nil {
		wlog.Error().Err(err).Msg("arm EPOLLOUT for backpressured endpoint")
	}
}

// drainFlushQueue attempts to write every endpoint with queued output;
// whatever doesn't fully drain this tick stays in s.flushing and is
// retried on the next one.
func (s *State) drainFlushQueue() {
	for id := range s.flushing {
		ep := s.endpointByID(id)
		if ep == nil {
			delete(s.flushing, id)
			continue
		}
		done, err := ep.Flush()
		if err != nil {
			wlog.Resource(uint64(id), err)
		}
		if done {
			delete(s.flushing, id)
			if err := s.modify(ep.Fd(), unix.EPOLLIN); err != nil {
				wlog.Error().Err(err).Msg("disarm EPOLLOUT after flush")
			}
		}
	}
}

func (s *State) endpointByID(id object.EndpointID) *endpoint.Endpoint {
	if s.upstream.ID == id {
		return s.upstream
	}
	return s.downstream[id]
}

// reap detaches every endpoint that has entered the dying state, marking
// every object it still owns as destroyed on both sides.
func (s *State) reap() {
	if s.upstream.Dying() {
		s.done = true
		for _, ep := range s.downstream {
			s.detachDownstream(ep)
		}
		return
	}
	for id, ep := range s.downstream {
		if ep.Dying() {
			delete(s.downstream, id)
			s.detachDownstream(ep)
		}
	}
}

// detachDownstream runs the disconnect cascade: every
// object the departing client owned on the shared upstream registry is
// marked destroyed on both sides and released. The client will never
// come back to dispute this, so the destroy latch is force-completed
// here rather than waiting on a delete_id the real compositor has no
// reason to ever send for an id the proxy stops tracking anyway.
func (s *State) detachDownstream(ep *endpoint.Endpoint) {
	for _, obj := range s.upstream.Registry.Owned(ep.ID) {
		obj.ObserveDestroy(object.SideClient)
		obj.ObserveDestroy(object.SideServer)
		s.upstream.Registry.Release(obj.UpstreamID)
	}
	delete(s.byFd, ep.Fd())
	delete(s.flushing, ep.ID)
	_ = s.unregister(ep.Fd())
	_ = ep.Close()
}

func (s *State) register(fd int, events uint32) error {
	err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
	if err != nil {
		return fmt.Errorf("proxystate: epoll_ctl add: %w", err)
	}
	return nil
}

func (s *State) modify(fd int, events uint32) error {
	err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_MOD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
	if err != nil {
		return fmt.Errorf("proxystate: epoll_ctl mod: %w", err)
	}
	return nil
}

func (s *State) unregister(fd int) error {
	err := unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("proxystate: epoll_ctl del: %w", err)
	}
	return nil
}

// Close tears down the event loop's own resources. It does not close
// endpoints still live in s.downstream/s.upstream; callers that want a
// clean shutdown should let Run drain naturally or close the upstream
// socket to trigger one.
func (s *State) Close() error {
	return unix.Close(s.epfd)
}
