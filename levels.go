package clog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Level represents the severity of a log message.
// Lower values are more severe: FATAL is 0 and TRACE is 5.
type Level int

// Log level constants, ordered from most to least severe.
const (
	FATAL Level = iota
	ERROR
	WARN
	INFO
	DEBUG
	TRACE
)

const levelCount = int(TRACE) + 1

var levelNames = [levelCount]string{"FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

// Labels are padded to a fixed width so columns line up.
var levelLabels = [levelCount]string{"FATAL", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

var defaultLevelStyles = [levelCount]string{
	"%fM", // FATAL
	"%fR", // ERROR
	"%fY", // WARN
	"%fG", // INFO
	"%fB", // DEBUG
	"%fC", // TRACE
}

// String converts a Level to its upper-case name.
//
// Returns:
//   - string: "FATAL", "ERROR", "WARN", "INFO", "DEBUG", "TRACE" or "UNKNOWN"
func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Valid reports whether l is one of the six defined severities.
func (l Level) Valid() bool {
	return l >= FATAL && l <= TRACE
}

// ParseLevel converts a string to its corresponding Level.
//
// Parameters:
//   - level: level name (case-insensitive, "warning" accepted) or its numeric value
//
// Returns:
//   - Level: Corresponding level constant
//   - error: Error if the input does not name a valid level
//
// Example:
//
//	level, err := ParseLevel("warn")
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(level) // Output: WARN
func ParseLevel(level string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "FATAL":
		return FATAL, nil
	case "ERROR":
		return ERROR, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "INFO":
		return INFO, nil
	case "DEBUG":
		return DEBUG, nil
	case "TRACE":
		return TRACE, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(level)); err == nil && Level(n).Valid() {
		return Level(n), nil
	}
	return FATAL, fmt.Errorf("invalid log level: %q", level)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid log level: %d", int(l))
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML accepts either a level name or its numeric value.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: log level must be a scalar", value.Line)
	}
	return l.UnmarshalText([]byte(value.Value))
}

// LevelInfo is the display data of one severity.
type LevelInfo struct {
	Label    string // fixed-width plain label
	StyleOn  string // SGR escape text emitted before the label
	StyleOff string // SGR escape text emitted after the label
	Styled   string // StyleOn + Label + StyleOff
}

func newLevelInfo(level Level, spec string) LevelInfo {
	info := LevelInfo{
		Label:    levelLabels[level],
		StyleOn:  CompileSgr(spec),
		StyleOff: sgrReset,
	}
	info.Styled = info.StyleOn + info.Label + info.StyleOff
	return info
}

// levelRegistry caches the rendered label of every severity.
type levelRegistry struct {
	mu     sync.RWMutex
	levels [levelCount]LevelInfo
}

func buildLevels() *levelRegistry {
	r := &levelRegistry{}
	for i := range levelCount {
		r.levels[i] = newLevelInfo(Level(i), defaultLevelStyles[i])
	}
	return r
}

// setStyle recomputes the entry of a single level; the others are untouched.
func (r *levelRegistry) setStyle(level Level, spec string) error {
	if !level.Valid() {
		return fmt.Errorf("invalid log level: %d", int(level))
	}
	info := newLevelInfo(level, spec)
	r.mu.Lock()
	r.levels[level] = info
	r.mu.Unlock()
	return nil
}

func (r *levelRegistry) info(level Level) LevelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.levels[level]
}

func (r *levelRegistry) label(level Level, styled bool) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if styled {
		return r.levels[level].Styled
	}
	return r.levels[level].Label
}
