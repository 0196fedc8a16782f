// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_compositor",
		Version: 6,
		Requests: []MessageSpec{
			{Name: "create_surface", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "wl_surface"}}},
			{Name: "create_region", Args: []ArgSpec{{Name: "id", Type: ArgNewID, Interface: "wl_region"}}},
		},
	})

	// wl_region objects are tracked so ids stay consistent, but this
	// proxy never needs to interpret their shape-accumulation requests.
	Register(&InterfaceSpec{
		Name:    "wl_region",
		Version: 1,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
			{Name: "add", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
			{Name: "subtract", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "width", Type: ArgInt}, {Name: "height", Type: ArgInt},
			}},
		},
	})
}
