// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_shm",
		Version: 2,
		Requests: []MessageSpec{
			{Name: "create_pool", Args: []ArgSpec{
				{Name: "id", Type: ArgNewID, Interface: "wl_shm_pool"},
				{Name: "fd", Type: ArgFd},
				{Name: "size", Type: ArgInt},
			}},
		},
		Events: []MessageSpec{
			{Name: "format", Args: []ArgSpec{{Name: "format", Type: ArgUint}}},
		},
	})

	Register(&InterfaceSpec{
		Name:    "wl_shm_pool",
		Version: 2,
		Requests: []MessageSpec{
			{Name: "create_buffer", Args: []ArgSpec{
				{Name: "id", Type: ArgNewID, Interface: "wl_buffer"},
				{Name: "offset", Type: ArgInt}, {Name: "width", Type: ArgInt},
				{Name: "height", Type: ArgInt}, {Name: "stride", Type: ArgInt},
				{Name: "format", Type: ArgUint},
			}},
			{Name: "destroy", Destructor: true},
			{Name: "resize", Args: []ArgSpec{{Name: "size", Type: ArgInt}}},
		},
	})

	Register(&InterfaceSpec{
		Name:    "wl_buffer",
		Version: 1,
		Requests: []MessageSpec{
			{Name: "destroy", Destructor: true},
		},
		Events: []MessageSpec{
			{Name: "release"},
		},
	})
}
