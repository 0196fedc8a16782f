// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "xdg_wm_base",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "create_positioner", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "xdg_positioner"}}},
			{Name: "get_xdg_surface", Args: []ArgSpec{
				{Name: "id", Type: ArgNewID, Interface: "xdg_surface"},
				{Name: "surface", Type: ArgObject, Interface: "wl_surface"},
			}},
			{Name: "pong", Args: []ArgSpec{{Name: "serial", Type: ArgUint}}},
		},
		Events: []MessageSpec{
			{Name: "ping", Args: []ArgSpec{{Name: "serial", Type: ArgUint}}},
		},
	})

	// xdg_positioner accumulates popup-placement constraints; this proxy
	// only needs to keep its id space consistent, never its geometry math.
	Register(&InterfaceSpec{
		Name:    "xdg_positioner",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "set_size", Args: []ArgSpec{{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt}}},
			{Name: "set_anchor_rect", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			{Name: "set_anchor", Args: []ArgSpec{{Name: "anchor", Type: ArgUint}}},
			{Name: "set_gravity", Args: []ArgSpec{{Name: "gravity", Type: ArgUint}}},
			{Name: "set_constraint_adjustment", Args: []ArgSpec{{Name: "constraint_adjustment", Type: ArgUint}}},
			{Name: "set_offset", Args: []ArgSpec{{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt}}},
		},
	})
}
