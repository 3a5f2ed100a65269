//go:build !windows

// Package console handles the Windows console: detecting a double-click
// launch and keeping Ctrl+C working after SDL installs its own handler.
package console

import "go.uber.org/zap"

// IsRunningFromConsole is always true outside Windows.
func IsRunningFromConsole() bool {
	return true
}

// SetupConsoleHandler does nothing outside Windows, where os/signal
// delivers interrupts.
func SetupConsoleHandler(interrupt func(), logger *zap.SugaredLogger) func() {
	return func() {}
}
