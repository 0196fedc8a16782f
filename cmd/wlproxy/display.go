// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxDisplayScan bounds the wayland-N scan; a real session never has
// more than a handful of displays live at once.
const maxDisplayScan = 32

// pickFreeDisplay finds an unused wayland-N socket name under runtimeDir,
// the way a real compositor claims its own display name at startup.
func pickFreeDisplay(runtimeDir string) (name, path string, err error) {
	for n := 0; n < maxDisplayScan; n++ {
		candidate := fmt.Sprintf("wayland-%d", n)
		candidatePath := filepath.Join(runtimeDir, candidate)
		if _, statErr := os.Stat(candidatePath); os.IsNotExist(statErr) {
			return candidate, candidatePath, nil
		}
	}
	return "", "", fmt.Errorf("wlproxy: no free wayland-N display under %s (tried 0..%d)", runtimeDir, maxDisplayScan-1)
}

// resolveUpstreamSocket turns the compositor display name the proxy
// should dial into an absolute socket path: override wins over
// WAYLAND_DISPLAY, and a relative name resolves against runtimeDir the
// same way every Wayland client does.
func resolveUpstreamSocket(override, runtimeDir string) (string, error) {
	display := override
	if display == "" {
		display = os.Getenv("WAYLAND_DISPLAY")
	}
	if display == "" {
		display = "wayland-0"
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	return filepath.Join(runtimeDir, display), nil
}
