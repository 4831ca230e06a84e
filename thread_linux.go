//go:build linux

package clog

import "golang.org/x/sys/unix"

func osThreadID() int {
	return unix.Gettid()
}
