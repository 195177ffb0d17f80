//go:build !windows

package project

import (
	"os"
	"syscall"
)

// isProcessAlive checks whether pid is a live process by sending it
// signal 0, which performs existence/permission checks without affecting
// the process.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
