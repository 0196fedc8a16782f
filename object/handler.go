// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package object

// HandlerSlot is the single-owner cell holding an object's handler: an
// optional, freely-replaceable typed callback set, guarded by a borrow
// ticket so a handler can never be re-entered while it is already
// running.
//
// The stored value is whatever the dispatcher installs (a
// dispatch.Handler); object does not know its shape, since object sits
// below dispatch and the per-object core is shared across every
// interface.
type HandlerSlot struct {
	handler  any
	borrowed bool
}

// Set installs h as the current handler, replacing any previous one.
// This never fails, even while a borrow is outstanding; the in-flight
// Borrow still holds the handler value it was given.
func (s *HandlerSlot) Set(h any) {
	s.handler = h
}

// Clear removes the current handler, reverting dispatch to the adapter's
// default (forwarding) behavior.
func (s *HandlerSlot) Clear() {
	s.handler = nil
}

// Get returns the currently installed handler, or nil if none is set.
func (s *HandlerSlot) Get() any {
	return s.handler
}

// Borrow acquires the single-entry borrow ticket for the duration of one
// dispatch. It returns ErrHandlerBorrowed if a borrow is already
// outstanding (a handler attempting to re-enter itself, directly or via a
// re-entrant dispatch loop). The returned release func must be called
// exactly once, typically via defer, when the dispatch completes.
func (s *HandlerSlot) Borrow() (release func(), err error) {
	if s.borrowed {
		return nil, ErrHandlerBorrowed
	}
	s.borrowed = true
	return func() { s.borrowed = false }, nil
}

// Borrowed reports whether a borrow is currently outstanding.
func (s *HandlerSlot) Borrowed() bool { return s.borrowed }
