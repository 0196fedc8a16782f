// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package object

import "errors"

// Identity errors.
var (
	ErrUnknownObject  = errors.New("object: unknown object id")
	ErrDuplicateID    = errors.New("object: duplicate id")
	ErrWrongType      = errors.New("object: wrong object type")
	ErrNoIDOnPeer     = errors.New("object: object has no id on the peer endpoint")
	ErrArgNoClientID  = errors.New("object: argument object has no client id")
	ErrIDSpaceExhaust = errors.New("object: id space exhausted")
)

// Lifecycle errors.
var (
	ErrHandlerBorrowed  = errors.New("object: handler already borrowed")
	ErrAlreadyDestroyed = errors.New("object: object already destroyed")
	ErrNoHandler        = errors.New("object: no handler installed")
)
