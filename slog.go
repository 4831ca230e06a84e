package clog

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

var _ slog.Handler = (*SlogHandler)(nil)

// SlogHandler adapts a Logger to slog.Handler. Attributes are appended to
// the message as key=value pairs and the source position comes from the
// record's program counter.
type SlogHandler struct {
	logger *Logger
	attrs  string // preformatted attributes from WithAttrs
	group  string // dotted group prefix from WithGroup
}

// NewSlogHandler returns an slog.Handler that writes through l.
//
// Example:
//
//	slog.SetDefault(slog.New(clog.NewSlogHandler(logger)))
//	slog.Info("server started", "port", 8080)
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// LevelFromSlog maps an slog level onto the six severities. Levels below
// slog.LevelDebug become TRACE and levels at or above slog.LevelError+4
// become FATAL.
func LevelFromSlog(level slog.Level) Level {
	switch {
	case level >= slog.LevelError+4:
		return FATAL
	case level >= slog.LevelError:
		return ERROR
	case level >= slog.LevelWarn:
		return WARN
	case level >= slog.LevelInfo:
		return INFO
	case level >= slog.LevelDebug:
		return DEBUG
	default:
		return TRACE
	}
}

// Enabled reports whether any handler accepts the level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := LevelFromSlog(level)
	for _, h := range s.logger.Handlers() {
		if h.Accepts(lvl) {
			return true
		}
	}
	return false
}

// Handle formats the record and dispatches it.
func (s *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	file, line, function := "unknown", 0, "unknown"
	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			file, line = filepath.Base(frame.File), frame.Line
		}
		if frame.Function != "" {
			function = shortFuncName(frame.Function)
		}
	}

	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(s.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, s.group, a)
		return true
	})
	s.logger.Log(LevelFromSlog(r.Level), file, line, function, b.String())
	return nil
}

// WithAttrs returns a handler that appends attrs to every message.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(s.attrs)
	for _, a := range attrs {
		appendAttr(&b, s.group, a)
	}
	return &SlogHandler{logger: s.logger, attrs: b.String(), group: s.group}
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	return &SlogHandler{logger: s.logger, attrs: s.attrs, group: s.group + name + "."}
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(b, prefix, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
