// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "xdg_surface",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "get_toplevel", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "xdg_toplevel"}}},
			{Name: "get_popup", Args: []ArgSpec{
				{Name: "id", Type: ArgNewID, Interface: "xdg_popup"},
				{Name: "parent", Type: ArgObject, Interface: "xdg_surface", Nullable: true},
				{Name: "positioner", Type: ArgObject, Interface: "xdg_positioner"},
			}},
			{Name: "set_window_geometry", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			{Name: "ack_configure", Args: []ArgSpec{{Name: "serial", Type: ArgUint}}},
		},
		Events: []MessageSpec{
			{Name: "configure", Args: []ArgSpec{{Name: "serial", Type: ArgUint}}},
		},
	})

	// xdg_popup is tracked as an opaque object: its placement is the
	// compositor's business, this proxy only forwards it untouched.
	Register(&InterfaceSpec{
		Name:    "xdg_popup",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "grab", Args: []ArgSpec{{Name: "seat", Type: ArgObject, Interface: "wl_seat"}, {Name: "serial", Type: ArgUint}}},
			{Name: "reposition", Args: []ArgSpec{
				{Name: "positioner", Type: ArgObject, Interface: "xdg_positioner"},
				{Name: "token", Type: ArgUint},
			}},
		},
		Events: []MessageSpec{
			{Name: "configure", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			// popup_done tells the client the popup was dismissed; the
			// object itself is only destroyed by the client's destroy.
			{Name: "popup_done"},
			{Name: "repositioned", Since: 3, Args: []ArgSpec{{Name: "token", Type: ArgUint}}},
		},
	})
}
