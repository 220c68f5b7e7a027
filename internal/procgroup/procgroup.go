// SPDX-License-Identifier: MIT

// Package procgroup manages ffmpeg child-process trees. ffmpeg can fork
// helpers, so cancelling a job must reap the whole group, not just the
// direct child.
package procgroup

import (
	"errors"
	"os/exec"
	"time"
)

var ErrKillFailed = errors.New("kill operation failed")

// Terminate gracefully stops a running command and its process group.
// It sends SIGTERM, waits up to grace for the exit reported on waitCh,
// then escalates to SIGKILL. The error from waitCh is always consumed
// and returned. Safe to call with a nil or unstarted command.
func Terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	_ = terminateGroup(cmd)

	select {
	case err := <-waitCh:
		return err
	case <-time.After(grace):
		_ = killGroup(cmd)
		return <-waitCh
	}
}
