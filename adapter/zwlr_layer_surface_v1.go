// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "zwlr_layer_surface_v1",
		Version: 4,
		Requests: []MessageSpec{
			{Name: "set_size", Args: []ArgSpec{{Name: "width", Type: ArgUint}, {Name: "height", Type: ArgUint}}},
			{Name: "set_anchor", Args: []ArgSpec{{Name: "anchor", Type: ArgUint}}},
			{Name: "set_exclusive_zone", Args: []ArgSpec{{Name: "zone", Type: ArgInt}}},
			{Name: "set_margin", Args: []ArgSpec{
				{Name: "top", Type: ArgInt}, {Name: "right", Type: ArgInt},
				{Name: "bottom", Type: ArgInt}, {Name: "left", Type: ArgInt},
			}},
			{Name: "set_keyboard_interactivity", Args: []ArgSpec{{Name: "keyboard_interactivity", Type: ArgUint}}},
			{Name: "get_popup", Args: []ArgSpec{{Name: "popup", Type: ArgObject, Interface: "xdg_popup"}}},
			{Name: "ack_configure", Args: []ArgSpec{{Name: "serial", Type: ArgUint}}},
			{Name: "destroy", Destructor: true},
			{Name: "set_layer", Since: 2, Args: []ArgSpec{{Name: "layer", Type: ArgUint}}},
		},
		Events: []MessageSpec{
			{Name: "configure", Args: []ArgSpec{
				{Name: "serial", Type: ArgUint}, {Name: "width", Type: ArgUint}, {Name: "height", Type: ArgUint},
			}},
			// closed tells the client to tear down, but the object is
			// only destroyed by the client's own destroy request.
			{Name: "closed"},
		},
	})
}
