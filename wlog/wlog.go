// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wlog is the proxy's diagnostic sink: one structured event per
// fatal or non-fatal error, carrying interface, opcode, endpoint, and
// error-kind fields instead of a hand-formatted string.
//
// A package-global zerolog.Logger, a level set from the --log-level flag, and
// Event-returning helpers so call sites read like
// log.Info().Str(...).Msg(...).
package wlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log = zerolog.New(os.Stderr).
		With().
		Timestamp().
		Logger()
}

// Logger returns the package-global logger, for callers that want to
// attach additional static fields via With().
func Logger() zerolog.Logger {
	return log
}

// SetLevel sets the global log level from its --log-level flag string.
// Unrecognized values fall back to info.
func SetLevel(level string) {
	var lvl zerolog.Level
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn", "warning":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	case "fatal":
		lvl = zerolog.FatalLevel
	case "panic":
		lvl = zerolog.PanicLevel
	default:
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }

// ErrorKind labels which family of failure a diagnostic belongs to;
// wlog treats it as an opaque label, not its own taxonomy, so the
// wire/object/dispatch packages remain the single source of truth for
// the actual error values.
type ErrorKind string

// Protocol reports one endpoint-fatal or policy-rejected message error:
// the interface and opcode the failing message belongs to, which
// endpoint observed it, and the error kind — the proxy's one-line
// diagnostic per protocol failure. The callers pass the opcode as its
// decimal number; the message name is not logged.
func Protocol(endpointID uint64, kind ErrorKind, iface, opcode string, err error) {
	log.Error().
		Uint64("endpoint", endpointID).
		Str("interface", iface).
		Str("opcode", opcode).
		Str("error_kind", string(kind)).
		Err(err).
		Msg("protocol error")
}

// Resource reports a non-fatal resource error that will retry on the
// next event-loop tick.
func Resource(endpointID uint64, err error) {
	log.Warn().
		Uint64("endpoint", endpointID).
		Err(err).
		Msg("resource error, retrying next tick")
}
