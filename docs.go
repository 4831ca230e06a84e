// Package clog is an embeddable logging engine built around independently
// configured handlers.
//
// Overview:
// A Logger fans every call out to an ordered list of handlers. Each handler
// owns one sink (console, file, pipe or in-memory buffer), accepts an
// inclusive severity range, renders with its own compiled format string and,
// for files and buffers, rolls over once a size threshold is crossed.
//
// Key Features:
// - Six severities, FATAL (most severe) through TRACE
// - Format strings compiled once per handler into typed parts
// - ANSI SGR styling: bold, faint, italic, underline, strikethrough, reverse,
// 16 named colors, palette indices and 24-bit RGB
// - Size-triggered file rollover to "{file}.{n}" without overwriting
// - Per-handler rate limiting
// - Optional Prometheus metrics
// - YAML and environment configuration
// - log/slog bridge
// - Thread-safe operations
//
// Getting Started:
//
//	logger, err := clog.Init() // console + "clog.log"
//	if err != nil {
//	    panic(err)
//	}
//	defer logger.Close()
//
//	logger.Info("Application starting")
//	logger.Warnf("Disk %s at %d%%", "/var", 91)
//
// Format Directives:
//
//	%m          formatted message
//	%l          level label (styled when the handler emits SGR)
//	%f %L %F    call-site file, line, function
//	%t(pattern) strftime timestamp, e.g. %t(%Y-%m-%d %H:%M:%S)
//	%d          seconds since the logger was created
//	%r          the handler's rollover counter
//	%p          process id
//	%T %P       OS thread id, goroutine id
//	%g(spec)    SGR style block, see CompileSgr
//	%G          reset all styles
//	%%          literal percent
//
// Unknown directives and unterminated %t( or %g( blocks are kept as text.
// %n, %x and %u are accepted and produce no output.
//
// Handlers:
//
//	h, err := logger.CreateHandler(clog.HandlerConfig{
//	    Name:        "audit",
//	    Kind:        clog.StreamFile,
//	    Filename:    "audit",
//	    MinLevel:    clog.ERROR,
//	    MaxLevel:    clog.WARN,
//	    Format:      "%t(%H:%M:%S) [%l] %m",
//	    MaxLength:   64 * 1024,
//	    RolloverCap: 10,
//	})
//
// Construction fails with an error matching ErrConstructionFailed and
// ErrInvalidRange when MinLevel is less severe than MaxLevel, or ErrSinkOpen
// when the file or pipe cannot be opened.
//
// Rollover:
//
// After a write pushes a file handler past MaxLength the file is renamed to
// "{file}.{n}", where n is the first number, counting up from the handler's
// rollover counter, whose file does not exist, and a fresh file is opened.
// The crossing message stays in the renamed file. If the rename or reopen
// fails, the handler drops later messages and reports the failure through
// Handler.Err and the ErrorHandler.
//
// Console Streams:
//
// Console handlers write ERROR and FATAL to stderr and the other levels to
// stdout.
package clog
