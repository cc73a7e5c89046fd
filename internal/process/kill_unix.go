//go:build !windows

// Package process terminates the browser process tree left behind by a
// launcher that failed to shut down cleanly.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid.
// Non-positive pids are ignored: -0 would address the caller's own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; launcher.Kill() is the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
