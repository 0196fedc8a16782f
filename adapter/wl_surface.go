// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_surface",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "attach", Args: []ArgSpec{
				{Name: "buffer", Type: ArgObject, Interface: "wl_buffer", Nullable: true},
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
			}},
			{Name: "damage", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			{Name: "frame", Args: []ArgSpec{{Name: "callback", Type: ArgNewID, Interface: "wl_callback"}}},
			{Name: "set_opaque_region", Args: []ArgSpec{{Name: "region", Type: ArgObject, Interface: "wl_region", Nullable: true}}},
			{Name: "set_input_region", Args: []ArgSpec{{Name: "region", Type: ArgObject, Interface: "wl_region", Nullable: true}}},
			{Name: "commit"},
			{Name: "set_buffer_transform", Since: 2, Args: []ArgSpec{{Name: "transform", Type: ArgInt}}},
			{Name: "set_buffer_scale", Since: 3, Args: []ArgSpec{{Name: "scale", Type: ArgInt}}},
			{Name: "damage_buffer", Since: 4, Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			{Name: "offset", Since: 5, Args: []ArgSpec{{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt}}},
		},
		Events: []MessageSpec{
			{Name: "enter", Args: []ArgSpec{{Name: "output", Type: ArgObject, Interface: "wl_output"}}},
			{Name: "leave", Args: []ArgSpec{{Name: "output", Type: ArgObject, Interface: "wl_output"}}},
			{Name: "preferred_buffer_scale", Since: 6, Args: []ArgSpec{{Name: "factor", Type: ArgInt}}},
			{Name: "preferred_buffer_transform", Since: 6, Args: []ArgSpec{{Name: "transform", Type: ArgUint}}},
		},
	})
}
