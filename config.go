package clog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	defaultFileName        = "clog"
	defaultFileExtension   = "log"
	defaultMaxLength int64 = 1024 * 1024
	minFileMaxLength int64 = 1024
)

// SGRMode controls whether a handler emits ANSI escape sequences.
type SGRMode string

// SGR modes. The empty mode means "on for console handlers, off otherwise".
const (
	SGRDefault SGRMode = ""
	SGROn      SGRMode = "on"
	SGROff     SGRMode = "off"
	SGRAuto    SGRMode = "auto" // on only when the sink is a terminal
)

// LoggerConfig defines the handlers of a Logger and their shared settings.
//
// Fields:
//   - LogsDir: directory for file handlers that do not set their own Dir
//   - DefaultFormat: format for handlers that do not set one (default: DefaultFormat)
//   - NoColor: when non-empty, SGR output is disabled on every handler
//   - Handlers: handlers created in order by New and Reset
//   - ErrorHandler: receives write and rollover failures; nil discards them.
//     It runs after the failing call has released every lock and may log
//     through the same Logger. A handler whose sink keeps failing on writes
//     reports every attempt, so avoid routing those reports back to it.
//   - Registerer: when set, handler metrics are registered on it
//
// Example:
//
//	config := LoggerConfig{
//	    LogsDir: "logs",
//	    Handlers: []HandlerConfig{
//	        {Name: "console", Kind: StreamConsole, MinLevel: FATAL, MaxLevel: INFO},
//	        {Name: "app", Kind: StreamFile, Filename: "app", MinLevel: FATAL, MaxLevel: TRACE,
//	            MaxLength: 10 * 1024 * 1024},
//	    },
//	}
type LoggerConfig struct {
	LogsDir       string          `yaml:"logs_dir" env:"CLOG_DIR"`
	DefaultFormat string          `yaml:"default_format" env:"CLOG_FORMAT"`
	NoColor       string          `yaml:"no_color" env:"NO_COLOR"`
	Handlers      []HandlerConfig `yaml:"handlers"`

	ErrorHandler func(error)           `yaml:"-"`
	Registerer   prometheus.Registerer `yaml:"-"`
}

// HandlerConfig holds the construction parameters of one Handler.
//
// Fields:
//   - Name: label used in metrics and lookups (default: the handler id)
//   - Kind: console, file, pipe or buffer
//   - MinLevel, MaxLevel: inclusive severity range, MinLevel <= MaxLevel
//   - Format: format string (default: the logger's default format)
//   - Dir, Filename, Extension: file location; Filename defaults to "clog" and a nil
//     Extension to "log", while an empty Extension produces no extension
//   - MaxLength: rollover threshold in bytes (file default 1 MiB, minimum 1024;
//     buffer 0 means unbounded)
//   - RolloverCap: number of rollover files kept, 0 keeps all
//   - PipeFD: inherited descriptor for pipe handlers without a Writer
//   - SGR: escape sequence mode
//   - MaxRate: maximum accepted lines per second, 0 means unlimited
//   - Disabled: create the handler with logging switched off
//   - Writer: pipe destination; takes precedence over PipeFD
//   - Stdout, Stderr: console destinations (default: os.Stdout, os.Stderr)
type HandlerConfig struct {
	Name        string     `yaml:"name"`
	Kind        StreamKind `yaml:"kind"`
	MinLevel    Level      `yaml:"min_level"`
	MaxLevel    Level      `yaml:"max_level"`
	Format      string     `yaml:"format"`
	Dir         string     `yaml:"dir"`
	Filename    string     `yaml:"filename"`
	Extension   *string    `yaml:"extension"`
	MaxLength   int64      `yaml:"max_length"`
	RolloverCap int        `yaml:"rollover_cap"`
	PipeFD      int        `yaml:"pipe_fd"`
	SGR         SGRMode    `yaml:"sgr"`
	MaxRate     int        `yaml:"max_rate"`
	Disabled    bool       `yaml:"disabled"`

	Writer io.Writer `yaml:"-"`
	Stdout io.Writer `yaml:"-"`
	Stderr io.Writer `yaml:"-"`
}

// DefaultConfig returns the configuration used by Init: a colored console
// handler and a "clog.log" file handler, both accepting FATAL through INFO.
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		DefaultFormat: DefaultFormat,
		Handlers: []HandlerConfig{
			{
				Name:     "console",
				Kind:     StreamConsole,
				MinLevel: FATAL,
				MaxLevel: INFO,
			},
			{
				Name:      "file",
				Kind:      StreamFile,
				MinLevel:  FATAL,
				MaxLevel:  INFO,
				Filename:  defaultFileName,
				MaxLength: defaultMaxLength,
			},
		},
	}
}

// Validate checks the configuration without opening any sink.
func (lc *LoggerConfig) Validate() error {
	for i := range lc.Handlers {
		if err := lc.Handlers[i].Validate(); err != nil {
			return newError(CodeInvalidConfig, fmt.Sprintf("handler %d", i), err)
		}
	}
	return nil
}

// Validate checks the handler parameters without opening the sink.
func (hc *HandlerConfig) Validate() error {
	if _, ok := streamKindNames[hc.Kind]; !ok {
		return fmt.Errorf("invalid stream kind: %d", int(hc.Kind))
	}
	if err := checkRange(hc.MinLevel, hc.MaxLevel); err != nil {
		return err
	}
	if hc.MaxLength < 0 {
		return fmt.Errorf("MaxLength cannot be negative")
	}
	if hc.RolloverCap < 0 {
		return fmt.Errorf("RolloverCap cannot be negative")
	}
	if hc.MaxRate < 0 {
		return fmt.Errorf("MaxRate cannot be negative")
	}
	switch hc.SGR {
	case SGRDefault, SGROn, SGROff, SGRAuto:
	default:
		return fmt.Errorf("invalid sgr mode: %q", hc.SGR)
	}
	if hc.Kind == StreamPipe && hc.Writer == nil && hc.PipeFD <= 0 {
		return fmt.Errorf("pipe handler needs a Writer or a PipeFD")
	}
	return nil
}

func checkRange(minLevel, maxLevel Level) error {
	if !minLevel.Valid() || !maxLevel.Valid() || minLevel > maxLevel {
		return newError(CodeInvalidRange,
			fmt.Sprintf("min level %s must not be less severe than max level %s", minLevel, maxLevel), nil)
	}
	return nil
}

// withDefaults returns a copy of hc completed from the logger settings.
func (lc *LoggerConfig) withDefaults(hc HandlerConfig) HandlerConfig {
	if hc.Format == "" {
		hc.Format = lc.DefaultFormat
	}
	if hc.Dir == "" {
		hc.Dir = lc.LogsDir
	}
	if strings.TrimSpace(lc.NoColor) != "" {
		hc.SGR = SGROff
	}
	return hc
}

// LoadConfig reads a YAML configuration file and applies environment
// overrides (CLOG_DIR, CLOG_FORMAT, NO_COLOR).
//
// Example file:
//
//	logs_dir: logs
//	handlers:
//	  - name: console
//	    kind: console
//	    min_level: fatal
//	    max_level: info
//	  - name: app
//	    kind: file
//	    filename: app
//	    min_level: fatal
//	    max_level: trace
//	    max_length: 10485760
//	    rollover_cap: 5
func LoadConfig(path string) (LoggerConfig, error) {
	var config LoggerConfig
	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return LoggerConfig{}, newError(CodeInvalidConfig, "failed to read "+path, err)
	}
	if err := config.Validate(); err != nil {
		return LoggerConfig{}, err
	}
	return config, nil
}

// ReadConfigEnv applies environment overrides to config.
func ReadConfigEnv(config *LoggerConfig) error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return newError(CodeInvalidConfig, "failed to read environment", err)
	}
	return nil
}
