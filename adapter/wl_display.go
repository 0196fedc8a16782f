// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_display",
		Version: 1,
		Requests: []MessageSpec{
			{Name: "sync", Args: []ArgSpec{{Name: "callback", Type: ArgNewID, Interface: "wl_callback"}}},
			{Name: "get_registry", Args: []ArgSpec{{Name: "registry", Type: ArgNewID, Interface: "wl_registry"}}},
		},
		Events: []MessageSpec{
			{Name: "error", Args: []ArgSpec{
				{Name: "object_id", Type: ArgObject, Nullable: true},
				{Name: "code", Type: ArgUint},
				{Name: "message", Type: ArgString},
			}},
			{Name: "delete_id", Args: []ArgSpec{{Name: "id", Type: ArgUint}}},
		},
	})
}
