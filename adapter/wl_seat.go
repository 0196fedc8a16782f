// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_seat",
		Version: 9,
		Requests: []MessageSpec{
			{Name: "get_pointer", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "wl_pointer"}}},
			{Name: "get_keyboard", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "wl_keyboard"}}},
			{Name: "get_touch", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "wl_touch"}}},
			{Name: "release", Since: 5, Destructor: true},
		},
		Events: []MessageSpec{
			{Name: "capabilities", Args: []ArgSpec{{Name: "capabilities", Type: ArgUint}}},
			{Name: "name", Since: 2, Args: []ArgSpec{{Name: "name", Type: ArgString}}},
		},
	})

	// wl_pointer/wl_keyboard/wl_touch are tracked as opaque objects —
	// this proxy multiplexes input focus events by forwarding them
	// untouched, it does not need to parse their request sets.
	Register(&InterfaceSpec{Name: "wl_pointer", Version: 1, Requests: []MessageSpec{
		{Name: "set_cursor", Args: []ArgSpec{
			{Name: "serial", Type: ArgUint},
			{Name: "surface", Type: ArgObject, Interface: "wl_surface", Nullable: true},
			{Name: "hotspot_x", Type: ArgInt}, {Name: "hotspot_y", Type: ArgInt},
		}},
		{Name: "release", Destructor: true},
	}})
	Register(&InterfaceSpec{Name: "wl_keyboard", Version: 1, Requests: []MessageSpec{{Name: "release", Destructor: true}}})
	Register(&InterfaceSpec{Name: "wl_touch", Version: 1, Requests: []MessageSpec{{Name: "release", Destructor: true}}})
}
