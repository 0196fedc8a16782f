// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "xdg_toplevel",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "set_parent", Args: []ArgSpec{{Name: "parent", Type: ArgObject, Interface: "xdg_toplevel", Nullable: true}}},
			{Name: "set_title", Args: []ArgSpec{{Name: "title", Type: ArgString}}},
			{Name: "set_app_id", Args: []ArgSpec{{Name: "app_id", Type: ArgString}}},
			{Name: "show_window_menu", Args: []ArgSpec{
				{Name: "seat", Type: ArgObject, Interface: "wl_seat"},
				{Name: "serial", Type: ArgUint},
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
			}},
			{Name: "move", Args: []ArgSpec{{Name: "seat", Type: ArgObject, Interface: "wl_seat"}, {Name: "serial", Type: ArgUint}}},
			{Name: "resize", Args: []ArgSpec{
				{Name: "seat", Type: ArgObject, Interface: "wl_seat"},
				{Name: "serial", Type: ArgUint}, {Name: "edges", Type: ArgUint},
			}},
			{Name: "set_max_size", Args: []ArgSpec{{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt}}},
			{Name: "set_min_size", Args: []ArgSpec{{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt}}},
			{Name: "set_maximized"},
			{Name: "unset_maximized"},
			{Name: "set_fullscreen", Args: []ArgSpec{{Name: "output", Type: ArgObject, Interface: "wl_output", Nullable: true}}},
			{Name: "unset_fullscreen"},
			{Name: "set_minimized"},
		},
		Events: []MessageSpec{
			{Name: "configure", Args: []ArgSpec{
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
				{Name: "states", Type: ArgArray},
			}},
			// close asks the client to close the window; the object itself
			// is only destroyed by the client's destroy.
			{Name: "close"},
			{Name: "configure_bounds", Since: 4, Args: []ArgSpec{{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt}}},
			{Name: "wm_capabilities", Since: 5, Args: []ArgSpec{{Name: "capabilities", Type: ArgArray}}},
		},
	})
}
