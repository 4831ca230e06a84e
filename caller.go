package clog

import (
	"path/filepath"
	"runtime"
	"strings"
)

// callSite resolves the file, line and function skip frames above its
// caller.
func callSite(skip int) (file string, line int, function string) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", 0, "unknown"
	}

	function = "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = shortFuncName(fn.Name())
	}
	return filepath.Base(file), line, function
}

// shortFuncName strips the package path, so "example.com/app/pkg.(*T).Run"
// becomes "Run".
func shortFuncName(name string) string {
	if lastSlash := strings.LastIndexByte(name, '/'); lastSlash >= 0 {
		name = name[lastSlash+1:]
	}
	if lastDot := strings.LastIndexByte(name, '.'); lastDot >= 0 {
		return name[lastDot+1:]
	}
	return name
}
