// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dispatch

import "errors"

// Protocol errors surfaced by the dispatcher itself, beyond what wire,
// object, and adapter already define.
var (
	ErrUnknownOpcode = errors.New("dispatch: unknown opcode for object's interface")
)
