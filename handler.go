package clog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Handler is one independently configured sink with its own severity
// range, compiled format and rollover policy.
//
// A Handler is safe for concurrent use. It must not be used after Close.
type Handler struct {
	mu          sync.Mutex
	id          string
	name        string
	kind        StreamKind
	enabled     bool
	minLevel    Level
	maxLevel    Level
	format      string
	parts       []FormatPart
	sgr         bool
	sink        sink
	path        string // file handlers only
	length      int64
	maxLength   int64
	rollover    int
	rolloverCap int
	limiter     *rate.Limiter
	err         error // set when a rollover left the sink unusable
	retrying    bool  // a failed rollover probe was reported and is retried on each write
	closed      bool
	metrics     collector
}

// NewHandler validates cfg, opens its sink and compiles its format.
//
// Parameters:
//   - cfg: handler parameters; see HandlerConfig
//
// Returns:
//   - *Handler: the open handler
//   - error: an error matching ErrConstructionFailed and the specific cause
//     (ErrInvalidRange, ErrSinkOpen or a configuration error)
//
// Example:
//
//	h, err := NewHandler(HandlerConfig{
//	    Kind:      StreamFile,
//	    Filename:  "app",
//	    MinLevel:  FATAL,
//	    MaxLevel:  DEBUG,
//	    MaxLength: 10 * 1024 * 1024,
//	})
//	if err != nil {
//	    panic(err)
//	}
//	defer h.Close()
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, newError(CodeConstructionFailed, "invalid handler configuration", err)
	}

	h := &Handler{
		id:          uuid.NewString(),
		name:        cfg.Name,
		kind:        cfg.Kind,
		enabled:     !cfg.Disabled,
		minLevel:    cfg.MinLevel,
		maxLevel:    cfg.MaxLevel,
		rollover:    1,
		rolloverCap: cfg.RolloverCap,
		metrics:     nopCollector{},
	}
	if h.name == "" {
		h.name = h.id
	}
	if cfg.MaxRate > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(cfg.MaxRate), cfg.MaxRate)
	}

	if err := h.open(cfg); err != nil {
		_ = h.Close()
		return nil, newError(CodeConstructionFailed, fmt.Sprintf("handler %q", h.name), err)
	}

	format := cfg.Format
	if format == "" {
		format = DefaultFormat
	}
	h.format = format
	h.parts = Compile(format)
	h.sgr = h.resolveSGR(cfg.SGR)
	return h, nil
}

func (h *Handler) open(cfg HandlerConfig) error {
	switch cfg.Kind {
	case StreamConsole:
		s := &consoleSink{stdout: cfg.Stdout, stderr: cfg.Stderr}
		if s.stdout == nil {
			s.stdout = os.Stdout
		}
		if s.stderr == nil {
			s.stderr = os.Stderr
		}
		h.sink = s
	case StreamFile:
		h.path = resolveFilename(cfg)
		f, size, err := openLogFile(h.path)
		if err != nil {
			return newError(CodeSinkOpen, h.path, err)
		}
		h.sink = &fileSink{f: f}
		h.length = size
		h.maxLength = cfg.MaxLength
		if h.maxLength == 0 {
			h.maxLength = defaultMaxLength
		}
		h.maxLength = max(h.maxLength, minFileMaxLength)
	case StreamPipe:
		if cfg.Writer != nil {
			h.sink = &pipeSink{w: cfg.Writer}
			break
		}
		f, err := openPipe(cfg.PipeFD)
		if err != nil {
			return newError(CodeSinkOpen, "pipe", err)
		}
		h.sink = &pipeSink{w: f, owned: true}
	case StreamBuffer:
		h.sink = &bufferSink{}
		h.maxLength = cfg.MaxLength
	}
	return nil
}

// resolveFilename joins Dir, Filename and Extension, falling back to
// "clog" and "log".
func resolveFilename(cfg HandlerConfig) string {
	name := cfg.Filename
	if name == "" {
		name = defaultFileName
	}
	ext := defaultFileExtension
	if cfg.Extension != nil {
		ext = *cfg.Extension
	}
	if ext != "" {
		name += "." + ext
	}
	if cfg.Dir != "" {
		name = filepath.Join(cfg.Dir, name)
	}
	return name
}

func (h *Handler) resolveSGR(mode SGRMode) bool {
	switch mode {
	case SGROn:
		return true
	case SGROff:
		return false
	case SGRAuto:
		switch s := h.sink.(type) {
		case *consoleSink:
			return isTerminal(s.stdout) && isTerminal(s.stderr)
		case *pipeSink:
			return isTerminal(s.w)
		}
		return false
	}
	return h.kind == StreamConsole
}

// ID returns the unique id assigned at construction.
func (h *Handler) ID() string { return h.id }

// Name returns the configured name, or the id when none was given.
func (h *Handler) Name() string { return h.name }

// Kind returns the stream kind.
func (h *Handler) Kind() StreamKind { return h.kind }

// Path returns the active file of a file handler and "" otherwise.
func (h *Handler) Path() string { return h.path }

// Accepts reports whether a message of the given level would be written.
func (h *Handler) Accepts(level Level) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.accepts(level)
}

func (h *Handler) accepts(level Level) bool {
	return !h.closed && h.enabled && level >= h.minLevel && level <= h.maxLevel
}

// Range returns the inclusive severity range.
func (h *Handler) Range() (minLevel, maxLevel Level) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.minLevel, h.maxLevel
}

// SetRange updates the severity range at runtime.
//
// Returns:
//   - error: ErrInvalidRange if minLevel > maxLevel or either is out of bounds
func (h *Handler) SetRange(minLevel, maxLevel Level) error {
	if err := checkRange(minLevel, maxLevel); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.minLevel, h.maxLevel = minLevel, maxLevel
	return nil
}

// Enabled reports the logging flag.
func (h *Handler) Enabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled
}

// SetEnabled switches logging on or off without closing the sink.
func (h *Handler) SetEnabled(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enabled = enabled
}

// SGR reports whether escape sequences are emitted.
func (h *Handler) SGR() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sgr
}

// SetSGR toggles escape sequence output.
func (h *Handler) SetSGR(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sgr = on
}

// Format returns the raw format string.
func (h *Handler) Format() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.format
}

// SetFormat compiles and installs a new format. An empty format selects
// DefaultFormat.
func (h *Handler) SetFormat(format string) {
	if format == "" {
		format = DefaultFormat
	}
	parts := Compile(format)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.format = format
	h.parts = parts
}

// Parts returns a copy of the compiled format.
func (h *Handler) Parts() []FormatPart {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.parts)
}

// Length returns the number of bytes in the current stream. For file
// handlers this is the size of the active file.
func (h *Handler) Length() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.length
}

// MaxLength returns the rollover threshold, 0 when there is none.
func (h *Handler) MaxLength() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxLength
}

// RolloverCount returns the number the next rollover starts probing from.
func (h *Handler) RolloverCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rollover
}

// Err returns the rollover failure that made the sink unusable, if any.
func (h *Handler) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Contents returns a copy of a buffer handler's data and nil for other kinds.
func (h *Handler) Contents() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sink.(*bufferSink); ok {
		return bytes.Clone(s.buf.Bytes())
	}
	return nil
}

// write renders rec and writes it to the sink, rolling over afterwards
// when the threshold was crossed. It returns the number of bytes written;
// filtered and dropped messages write zero bytes without error. A failed
// rollover is returned as an error matching ErrRollover after the message
// itself was written.
func (h *Handler) write(rec *record, levels *levelRegistry) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, ErrHandlerClosed
	}
	if !h.accepts(rec.level) {
		return 0, nil
	}
	if h.err != nil {
		h.metrics.dropped(h.name, dropUnusable)
		return 0, nil
	}
	if h.limiter != nil && !h.limiter.Allow() {
		h.metrics.dropped(h.name, dropRateLimited)
		return 0, nil
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	defer bufferPool.Put(buf)
	buf.Reset()
	render(buf, h.parts, rec, levels, h.sgr, h.rollover)

	w := h.sink.target(rec.level)
	n, err := w.Write(buf.Bytes())
	h.length += int64(n)
	if err == nil {
		err = flushWriter(w)
	}
	h.metrics.written(h.name, rec.level, n)
	if err != nil {
		return n, fmt.Errorf("log write error on handler %q: %w", h.name, err)
	}

	if h.maxLength > 0 && h.length > h.maxLength {
		if rerr := h.rollOver(); rerr != nil {
			return n, h.rolloverFailed(rerr)
		}
		h.retrying = false
	}
	return n, nil
}

// rolloverFailed records a failed rollover. Once the active file has been
// closed the sink is unusable and later messages are dropped. A failure
// before that point leaves the file open; the rollover is retried on the
// next write and only the first failure is returned.
//
// Thread safety:
//
//	Caller must hold h.mu
func (h *Handler) rolloverFailed(cause error) error {
	err := newError(CodeRollover, h.path, cause)
	if s, ok := h.sink.(*fileSink); ok && s.f == nil {
		h.err = err
		return err
	}
	if h.retrying {
		return nil
	}
	h.retrying = true
	return err
}

// Close flushes and closes the sink and releases the compiled format.
// Closing an already closed handler is a no-op.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.parts = nil
	if h.sink == nil {
		return nil
	}
	err := h.sink.Close()
	h.sink = nil
	return err
}
