// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wl-proxy/wlproxy/wlog"
)

var (
	logLevel    string
	displayFlag string
)

var rootCmd = &cobra.Command{
	Use:   "wlproxy -- PROGRAM [ARGS...]",
	Short: "Transparent Wayland proxy",
	Long: `wlproxy sits between a launched program and the real compositor: it
claims a fresh wayland-N display, forwards every message between the
program and the compositor unchanged by default, and exits with the
launched program's exit code.

No stdin/stdout protocol and no config file belong to the core; every
flag below is the whole of its surface.`,
	Args: cobra.MinimumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wlog.SetLevel(logLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := run(displayFlag, args)
		if err != nil {
			return err
		}
		if code != 0 {
			os.Exit(code)
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wlog.Error().Err(err).Msg("wlproxy exiting")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, fatal, panic)")
	rootCmd.Flags().StringVar(&displayFlag, "display", "", "compositor display to dial, overriding WAYLAND_DISPLAY")
}
