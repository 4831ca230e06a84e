package clog

import (
	"io"
	"testing"
)

func newBenchmarkLogger(b *testing.B, format string) *Logger {
	b.Helper()
	logger, err := New(LoggerConfig{
		DefaultFormat: format,
		Handlers: []HandlerConfig{
			{Kind: StreamPipe, Writer: io.Discard, MinLevel: FATAL, MaxLevel: INFO},
		},
	})
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = logger.Close() })
	return logger
}

func BenchmarkLogging(b *testing.B) {
	logger := newBenchmarkLogger(b, "%l %m")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark log message")
	}
}

func BenchmarkLoggingDefaultFormat(b *testing.B) {
	logger := newBenchmarkLogger(b, DefaultFormat)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Infof("benchmark log message %d", i)
	}
}

func BenchmarkFilteredLevel(b *testing.B) {
	logger := newBenchmarkLogger(b, DefaultFormat)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("never rendered")
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Compile(DefaultFormat)
	}
}
