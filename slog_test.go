package clog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromSlog(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want Level
	}{
		{slog.LevelError + 4, FATAL},
		{slog.LevelError + 8, FATAL},
		{slog.LevelError, ERROR},
		{slog.LevelWarn, WARN},
		{slog.LevelInfo, INFO},
		{slog.LevelInfo + 2, INFO},
		{slog.LevelDebug, DEBUG},
		{slog.LevelDebug - 4, TRACE},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromSlog(tt.in), tt.in.String())
	}
}

func TestSlogHandler(t *testing.T) {
	logger, err := New(LoggerConfig{
		DefaultFormat: "%l %f %m",
		Handlers:      []HandlerConfig{{Name: "b", Kind: StreamBuffer, MinLevel: FATAL, MaxLevel: INFO}},
	})
	require.NoError(t, err)
	defer logger.Close()

	sl := slog.New(NewSlogHandler(logger))
	sl.Info("server started", "port", 8080)
	sl.Debug("not accepted")
	sl.With("component", "db").WithGroup("req").Warn("slow", "ms", 250, slog.Group("user", "id", 7))

	want := "INFO  slog_test.go server started port=8080\n" +
		"WARN  slog_test.go slow component=db req.ms=250 req.user.id=7\n"
	assert.Equal(t, want, string(logger.Handler("b").Contents()))
}

func TestSlogHandlerEnabled(t *testing.T) {
	logger, err := New(LoggerConfig{
		Handlers: []HandlerConfig{{Kind: StreamBuffer, MinLevel: ERROR, MaxLevel: WARN}},
	})
	require.NoError(t, err)
	defer logger.Close()

	h := NewSlogHandler(logger)
	ctx := context.Background()
	assert.True(t, h.Enabled(ctx, slog.LevelError))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.False(t, h.Enabled(ctx, slog.LevelError+4))

	assert.Same(t, h, h.WithGroup(""))
}
