//go:build unix && !linux

package clog

import "golang.org/x/sys/unix"

// Only Linux exposes a thread id syscall through x/sys; other unixes
// fall back to the process id.
func osThreadID() int {
	return unix.Getpid()
}
