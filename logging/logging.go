// Package logging provides the small, dependency-agnostic logging facade
// used across actority (system, broker, supervisor): a host application
// wires in whatever logging library it already uses by implementing
// Logger, and gets stderr output by default.
package logging

import (
	"fmt"
	"os"
)

// Logger is the minimal interface actority depends on for diagnostics.
// The signature intentionally matches what most logging packages already
// expose, so adapting an existing logger is a one-line shim.
type Logger interface {
	Println(string)
}

type stderrLogger struct{}

func (stderrLogger) Println(msg string) { fmt.Fprintln(os.Stderr, msg) }

var defaultLogger Logger = stderrLogger{}

// SetDefault installs l as the logger used by packages that don't have
// one explicitly configured. Passing nil discards all output.
func SetDefault(l Logger) {
	if l == nil {
		defaultLogger = discardLogger{}
		return
	}
	defaultLogger = l
}

type discardLogger struct{}

func (discardLogger) Println(string) {}

// Default returns the currently installed default Logger.
func Default() Logger { return defaultLogger }

// Printf formats and logs a message via Default().
func Printf(format string, args ...any) {
	defaultLogger.Println(fmt.Sprintf(format, args...))
}
