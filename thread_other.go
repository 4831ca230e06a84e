//go:build !unix && !windows

package clog

import "os"

func osThreadID() int {
	return os.Getpid()
}
