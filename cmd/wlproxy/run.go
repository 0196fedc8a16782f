// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/wl-proxy/wlproxy/endpoint"
	"github.com/wl-proxy/wlproxy/policy"
	"github.com/wl-proxy/wlproxy/proxystate"
	"github.com/wl-proxy/wlproxy/wlog"
)

// run claims a fresh wayland-N display, dials the real compositor,
// launches childArgs with that display published in its environment, and
// returns its exit code once it exits.
func run(displayOverride string, childArgs []string) (int, error) {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return 0, fmt.Errorf("wlproxy: XDG_RUNTIME_DIR not set")
	}

	upstreamPath, err := resolveUpstreamSocket(displayOverride, runtimeDir)
	if err != nil {
		return 0, err
	}
	upstreamFd, err := endpoint.DialUnix(upstreamPath)
	if err != nil {
		return 0, fmt.Errorf("wlproxy: dial compositor at %s: %w", upstreamPath, err)
	}

	displayName, listenPath, err := pickFreeDisplay(runtimeDir)
	if err != nil {
		return 0, err
	}
	listenFd, err := endpoint.ListenUnix(listenPath)
	if err != nil {
		return 0, fmt.Errorf("wlproxy: listen on %s: %w", listenPath, err)
	}

	st, err := proxystate.New(upstreamFd, policy.NoOp{})
	if err != nil {
		return 0, fmt.Errorf("wlproxy: bootstrap proxy state: %w", err)
	}
	if err := st.Listen(listenFd); err != nil {
		return 0, fmt.Errorf("wlproxy: listen: %w", err)
	}

	go func() {
		if err := st.Run(); err != nil {
			wlog.Error().Err(err).Msg("event loop exited")
		}
	}()

	wlog.Info().Str("display", displayName).Str("upstream", upstreamPath).Msg("proxy ready")

	child := exec.Command(childArgs[0], childArgs[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Env = append(os.Environ(), "WAYLAND_DISPLAY="+displayName)

	if err := child.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("wlproxy: launch %s: %w", childArgs[0], err)
	}
	return 0, nil
}
