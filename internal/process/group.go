// Package process supervises external tool processes (typesetter, browser).
package process

import (
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Wait keeps draining output pipes after the
// process group was killed.
const DefaultWaitDelay = 2 * time.Second

// Isolate puts cmd in its own process group. When cmd was created with
// exec.CommandContext, cancelling the context kills the whole group rather
// than only the direct child.
func Isolate(cmd *exec.Cmd) {
	setGroup(cmd)
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
}
