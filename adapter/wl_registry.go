// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

// BindOpcode is wl_registry's single request opcode. Its argument shape
// (name, then an inline interface/version pair, then the new-id) is
// decoded by wire.Reader.BindArgs rather than the generic DecodeArgs
// path.
const BindOpcode = 0

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_registry",
		Version: 1,
		Requests: []MessageSpec{
			// Args is documentation only; bind's real wire shape is
			// hand-decoded via wire.Reader.BindArgs, not DecodeArgs.
			{Name: "bind", Args: []ArgSpec{
				{Name: "name", Type: ArgUint},
				{Name: "id", Type: ArgNewID},
			}},
		},
		Events: []MessageSpec{
			{Name: "global", Args: []ArgSpec{
				{Name: "name", Type: ArgUint},
				{Name: "interface", Type: ArgString},
				{Name: "version", Type: ArgUint},
			}},
			{Name: "global_remove", Args: []ArgSpec{{Name: "name", Type: ArgUint}}},
		},
	})
}
