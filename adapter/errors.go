// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

import "errors"

// Schema errors surfaced when a message's opcode or version does not
// match its interface's registered schema.
var (
	ErrUnknownInterface = errors.New("adapter: unknown interface")
	ErrUnknownMessageID = errors.New("adapter: unknown message id")
	ErrVersionTooLow    = errors.New("adapter: message requires a higher interface version")
)
