package clog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Logger owns the level registry and the ordered handler collection. It
// replaces process-wide state: create one with New or Init, release it
// with Close, and rebuild it with Reset.
//
// Log, AddHandler, CreateHandler and DeleteHandler are safe for concurrent use.
type Logger struct {
	mu       sync.RWMutex
	config   LoggerConfig
	levels   *levelRegistry
	handlers []*Handler
	start    time.Time
	metrics  collector
}

// New creates a Logger with the handlers described by config.
//
// Parameters:
//   - config: LoggerConfig describing the handlers and shared settings
//
// Returns:
//   - *Logger: Configured logger instance
//   - error: the first handler construction failure; handlers opened before
//     it are closed again
//
// Example:
//
//	logger, err := New(LoggerConfig{
//	    Handlers: []HandlerConfig{
//	        {Kind: StreamConsole, MinLevel: FATAL, MaxLevel: DEBUG},
//	    },
//	})
//	if err != nil {
//	    panic(err)
//	}
//	defer logger.Close()
//
//	logger.Info("Logger initialized successfully")
func New(config LoggerConfig) (*Logger, error) {
	if config.DefaultFormat == "" {
		config.DefaultFormat = DefaultFormat
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l := &Logger{config: config, metrics: nopCollector{}}
	if config.Registerer != nil {
		c, err := newPromCollector(config.Registerer)
		if err != nil {
			return nil, err
		}
		l.metrics = c
	}
	if err := l.init(); err != nil {
		return nil, err
	}
	return l, nil
}

// Init creates a Logger from DefaultConfig: a console handler and a
// "clog.log" file handler in the working directory.
func Init() (*Logger, error) {
	return New(DefaultConfig())
}

// init builds the level registry and the configured handlers.
func (l *Logger) init() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.levels = buildLevels()
	l.start = time.Now()
	l.handlers = make([]*Handler, 0, len(l.config.Handlers))
	for _, hc := range l.config.Handlers {
		h, err := NewHandler(l.config.withDefaults(hc))
		if err != nil {
			l.closeHandlers()
			return err
		}
		l.attach(h)
	}
	return nil
}

// attach wires h to the logger. Caller must hold l.mu.
func (l *Logger) attach(h *Handler) {
	h.mu.Lock()
	h.metrics = l.metrics
	h.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

func (l *Logger) closeHandlers() error {
	var errs []error
	for _, h := range l.handlers {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close handler %q: %w", h.Name(), err))
		}
	}
	l.handlers = nil
	return errors.Join(errs...)
}

// Close closes every handler. The logger drops all messages afterwards
// until Reset is called.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closeHandlers()
}

// Reset closes every handler, including ones added after New, and rebuilds
// the level registry and the configured handlers. Level styles return to
// their defaults and the %d clock restarts.
func (l *Logger) Reset() error {
	closeErr := l.Close()
	if err := l.init(); err != nil {
		return err
	}
	return closeErr
}

// AddHandler appends an already constructed handler. The logger takes
// ownership and closes it on Close, Reset or DeleteHandler.
func (l *Logger) AddHandler(h *Handler) {
	if h == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attach(h)
}

// CreateHandler constructs a handler with the logger's defaults applied
// and appends it.
func (l *Logger) CreateHandler(cfg HandlerConfig) (*Handler, error) {
	h, err := NewHandler(l.config.withDefaults(cfg))
	if err != nil {
		return nil, err
	}
	l.AddHandler(h)
	return h, nil
}

// DeleteHandler removes h from the collection and closes it. The handle
// must not be used afterwards.
func (l *Logger) DeleteHandler(h *Handler) error {
	if h == nil {
		return fmt.Errorf("cannot delete a nil handler")
	}
	l.mu.Lock()
	idx := slices.Index(l.handlers, h)
	if idx >= 0 {
		l.handlers = slices.Delete(l.handlers, idx, idx+1)
	}
	l.mu.Unlock()

	if idx < 0 {
		return fmt.Errorf("handler %q is not registered", h.Name())
	}
	return h.Close()
}

// Handlers returns the live handlers in insertion order.
func (l *Logger) Handlers() []*Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.handlers)
}

// Handler returns the first handler with the given name or id.
func (l *Logger) Handler(name string) *Handler {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, h := range l.handlers {
		if h.name == name || h.id == name {
			return h
		}
	}
	return nil
}

// SetLevelStyle replaces the style of one level with an SGR spec such as
// "%d%fR" and recomputes its styled label.
func (l *Logger) SetLevelStyle(level Level, spec string) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.levels.setStyle(level, spec)
}

// LevelInfo returns the cached display data of level.
func (l *Logger) LevelInfo(level Level) LevelInfo {
	if !level.Valid() {
		return LevelInfo{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.levels.info(level)
}

// Log renders one message on every handler whose range contains level.
// It is the entry point behind the level methods; call it directly to
// supply the call site yourself.
//
// Parameters:
//   - level: severity of the message
//   - file, line, function: call site
//   - message: printf-style format, used verbatim when args is empty
//   - args: values for message
//
// Write and rollover failures are not returned; they go to the
// configured ErrorHandler once every handler has been visited and no lock
// is held, so the ErrorHandler may log through the same Logger.
func (l *Logger) Log(level Level, file string, line int, function, message string, args ...any) {
	if !level.Valid() {
		return
	}
	for _, err := range l.dispatch(level, file, line, function, message, args) {
		l.handleError(err)
	}
}

// dispatch writes one message to every accepting handler in insertion
// order and collects their failures.
func (l *Logger) dispatch(level Level, file string, line int, function, message string, args []any) []error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var (
		rec  *record
		errs []error
	)
	for _, h := range l.handlers {
		if !h.Accepts(level) {
			continue
		}
		if rec == nil {
			rec = newRecord(level, file, line, function, message, args, l.start)
		}
		if _, err := h.write(rec, l.levels); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (l *Logger) handleError(err error) {
	if l.config.ErrorHandler != nil {
		l.config.ErrorHandler(err)
	}
}
