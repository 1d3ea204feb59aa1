//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals covers Ctrl-C and the orchestrator's stop signal.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
