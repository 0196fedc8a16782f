// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import "errors"

// Resource errors.
var (
	ErrMissingFd  = errors.New("endpoint: missing file descriptor")
	ErrTooManyFds = errors.New("endpoint: too many file descriptors in one sendmsg")
	ErrSocketIO   = errors.New("endpoint: socket i/o error")
)
