package clog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// StreamKind selects the sink type of a handler.
type StreamKind int

// Supported stream kinds.
const (
	StreamConsole StreamKind = iota
	StreamFile
	StreamPipe
	StreamBuffer
)

var streamKindNames = map[StreamKind]string{
	StreamConsole: "console",
	StreamFile:    "file",
	StreamPipe:    "pipe",
	StreamBuffer:  "buffer",
}

func (k StreamKind) String() string {
	if name, ok := streamKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseStreamKind converts a kind name ("console", "file", "pipe", "buffer")
// to a StreamKind.
func ParseStreamKind(s string) (StreamKind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for k, name := range streamKindNames {
		if name == want {
			return k, nil
		}
	}
	return StreamConsole, fmt.Errorf("invalid stream kind: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k StreamKind) MarshalText() ([]byte, error) {
	if _, ok := streamKindNames[k]; !ok {
		return nil, fmt.Errorf("invalid stream kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StreamKind) UnmarshalText(text []byte) error {
	parsed, err := ParseStreamKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *StreamKind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: stream kind must be a scalar", value.Line)
	}
	return k.UnmarshalText([]byte(value.Value))
}

// sink is the byte stream a handler owns.
type sink interface {
	io.Closer
	// target returns the writer for a message of the given level.
	target(level Level) io.Writer
}

// consoleSink routes ERROR and FATAL to stderr and everything else to stdout.
type consoleSink struct {
	stdout io.Writer
	stderr io.Writer
}

func (s *consoleSink) target(level Level) io.Writer {
	if level <= ERROR {
		return s.stderr
	}
	return s.stdout
}

// Close leaves the process streams open.
func (s *consoleSink) Close() error { return nil }

type fileSink struct {
	f *os.File
}

func (s *fileSink) target(Level) io.Writer { return s.f }

func (s *fileSink) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

type pipeSink struct {
	w     io.Writer
	owned bool // the descriptor was opened by the handler
}

func (s *pipeSink) target(Level) io.Writer { return s.w }

func (s *pipeSink) Close() error {
	if !s.owned {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

type bufferSink struct {
	buf bytes.Buffer
}

func (s *bufferSink) target(Level) io.Writer { return &s.buf }

func (s *bufferSink) Close() error { return nil }

// openLogFile opens path for appending, creating parent directories, and
// returns the current end-of-file offset.
func openLogFile(path string) (*os.File, int64, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, 0, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open log file: %w", err)
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("failed to seek log file: %w", err)
	}
	return f, size, nil
}

// openPipe wraps an inherited descriptor after checking that it is open.
func openPipe(fd int) (*os.File, error) {
	if fd <= 0 {
		return nil, fmt.Errorf("invalid pipe descriptor %d", fd)
	}
	f := os.NewFile(uintptr(fd), fmt.Sprintf("pipe:%d", fd))
	if f == nil {
		return nil, fmt.Errorf("invalid pipe descriptor %d", fd)
	}
	if _, err := f.Stat(); err != nil {
		// Release the wrapper now so its finalizer cannot close a reused descriptor.
		_ = f.Close()
		return nil, fmt.Errorf("pipe descriptor %d: %w", fd, err)
	}
	return f, nil
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// flushWriter flushes writers that buffer internally, such as *bufio.Writer.
func flushWriter(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
