//go:build windows

package main

import "os"

// shutdownSignals holds only Ctrl-C; SIGTERM is never delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
