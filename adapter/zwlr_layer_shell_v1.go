// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "zwlr_layer_shell_v1",
		Version: 4,
		Requests: []MessageSpec{
			{Name: "get_layer_surface", Args: []ArgSpec{
				{Name: "id", Type: ArgNewID, Interface: "zwlr_layer_surface_v1"},
				{Name: "surface", Type: ArgObject, Interface: "wl_surface"},
				{Name: "output", Type: ArgObject, Interface: "wl_output", Nullable: true},
				{Name: "layer", Type: ArgUint},
				{Name: "namespace", Type: ArgString},
			}},
			{Name: "destroy", Destructor: true},
		},
	})
}
