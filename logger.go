package clog

import "fmt"

// logf captures the call site two frames up and dispatches.
func (l *Logger) logf(level Level, format string, args ...any) {
	file, line, function := callSite(2)
	l.Log(level, file, line, function, format, args...)
}

// Fatal logs a message at FATAL level. It does not exit the program.
//
// Parameters:
//   - v: Values to log, will be converted to string using fmt.Sprint
func (l *Logger) Fatal(v ...any) {
	l.logf(FATAL, fmt.Sprint(v...))
}

// Error logs a message at ERROR level.
//
// Parameters:
//   - v: Values to log, will be converted to string using fmt.Sprint
//
// Example:
//
//	logger.Error("Failed to connect to database")
func (l *Logger) Error(v ...any) {
	l.logf(ERROR, fmt.Sprint(v...))
}

// Warn logs a message at WARN level.
func (l *Logger) Warn(v ...any) {
	l.logf(WARN, fmt.Sprint(v...))
}

// Info logs a message at INFO level.
//
// Example:
//
//	logger.Info("Application started")
//	logger.Info("User ", userID, " logged in")
func (l *Logger) Info(v ...any) {
	l.logf(INFO, fmt.Sprint(v...))
}

// Debug logs a message at DEBUG level.
func (l *Logger) Debug(v ...any) {
	l.logf(DEBUG, fmt.Sprint(v...))
}

// Trace logs a message at TRACE level.
func (l *Logger) Trace(v ...any) {
	l.logf(TRACE, fmt.Sprint(v...))
}

// Fatalf logs a formatted message at FATAL level. It does not exit the program.
//
// Parameters:
//   - format: Printf-style format string
//   - v: Values for the format string
func (l *Logger) Fatalf(format string, v ...any) {
	l.logf(FATAL, format, v...)
}

// Errorf logs a formatted message at ERROR level.
//
// Example:
//
//	logger.Errorf("Failed to process file %s: %v", filename, err)
func (l *Logger) Errorf(format string, v ...any) {
	l.logf(ERROR, format, v...)
}

// Warnf logs a formatted message at WARN level.
func (l *Logger) Warnf(format string, v ...any) {
	l.logf(WARN, format, v...)
}

// Infof logs a formatted message at INFO level.
//
// Example:
//
//	logger.Infof("Server started on %s:%d", host, port)
func (l *Logger) Infof(format string, v ...any) {
	l.logf(INFO, format, v...)
}

// Debugf logs a formatted message at DEBUG level.
func (l *Logger) Debugf(format string, v ...any) {
	l.logf(DEBUG, format, v...)
}

// Tracef logs a formatted message at TRACE level.
func (l *Logger) Tracef(format string, v ...any) {
	l.logf(TRACE, format, v...)
}
