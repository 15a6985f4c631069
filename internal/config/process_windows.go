//go:build windows

package config

import "os"

// isProcessAlive reports whether pid exists. FindProcess opens a handle on
// Windows and fails for unknown PIDs.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}
