// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_output",
		Version: 4,
		Requests: []MessageSpec{
			{Name: "release", Since: 3, Destructor: true},
		},
		Events: []MessageSpec{
			{Name: "geometry", Args: []ArgSpec{
				{Name: "x", Type: ArgInt}, {Name: "y", Type: ArgInt},
				{Name: "physical_width", Type: ArgInt}, {Name: "physical_height", Type: ArgInt},
				{Name: "subpixel", Type: ArgInt}, {Name: "make", Type: ArgString},
				{Name: "model", Type: ArgString}, {Name: "transform", Type: ArgInt},
			}},
			{Name: "mode", Args: []ArgSpec{
				{Name: "flags", Type: ArgUint}, {Name: "width", Type: ArgInt},
				{Name: "height", Type: ArgInt}, {Name: "refresh", Type: ArgInt},
			}},
			{Name: "done"},
			{Name: "scale", Since: 2, Args: []ArgSpec{{Name: "factor", Type: ArgInt}}},
			{Name: "name", Since: 4, Args: []ArgSpec{{Name: "name", Type: ArgString}}},
			{Name: "description", Since: 4, Args: []ArgSpec{{Name: "description", Type: ArgString}}},
		},
	})
}
