//go:build !windows

// Package process terminates the headless browser and its helper processes.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU children down with it. Non-positive PIDs are
// ignored: -0 would target fig's own group.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best effort; launcher.Kill() still runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
