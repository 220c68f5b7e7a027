// SPDX-License-Identifier: MIT

//go:build windows

package procgroup

import "os/exec"

// Set is a no-op on Windows; there is no POSIX process group to create.
func Set(cmd *exec.Cmd) {}

func terminateGroup(cmd *exec.Cmd) error {
	// Windows has no reliable graceful signal for console children.
	return nil
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
