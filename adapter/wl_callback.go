// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package adapter

func init() {
	Register(&InterfaceSpec{
		Name:    "wl_callback",
		Version: 1,
		Events: []MessageSpec{
			{Name: "done", Args: []ArgSpec{{Name: "callback_data", Type: ArgUint}}, Destructor: true},
		},
	})
}
