package clog

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCountLinesAndBytes(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger, err := New(LoggerConfig{
		DefaultFormat: "%m",
		Registerer:    reg,
		Handlers: []HandlerConfig{
			{Name: "buf", Kind: StreamBuffer, MinLevel: FATAL, MaxLevel: TRACE, MaxLength: 16},
		},
	})
	require.NoError(t, err)
	defer logger.Close()

	c, ok := logger.metrics.(*promCollector)
	require.True(t, ok)

	logger.Info("hello")
	logger.Info("world")
	logger.Error(strings.Repeat("x", 20))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.lines.WithLabelValues("buf", "INFO")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lines.WithLabelValues("buf", "ERROR")))
	assert.Equal(t, 33.0, testutil.ToFloat64(c.bytes.WithLabelValues("buf")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rollovers.WithLabelValues("buf")))
}

func TestMetricsDroppedLines(t *testing.T) {
	reg := prometheus.NewRegistry()
	logger, err := New(LoggerConfig{
		Registerer: reg,
		Handlers: []HandlerConfig{
			{Name: "limited", Kind: StreamBuffer, MinLevel: FATAL, MaxLevel: TRACE, MaxRate: 1},
		},
	})
	require.NoError(t, err)
	defer logger.Close()

	for range 5 {
		logger.Info("burst")
	}

	c := logger.metrics.(*promCollector)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lines.WithLabelValues("limited", "INFO")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.drops.WithLabelValues("limited", dropRateLimited)))
}

func TestMetricsSharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	config := LoggerConfig{
		Registerer: reg,
		Handlers:   []HandlerConfig{{Name: "shared", Kind: StreamBuffer, MinLevel: FATAL, MaxLevel: TRACE}},
	}

	first, err := New(config)
	require.NoError(t, err)
	defer first.Close()
	second, err := New(config)
	require.NoError(t, err)
	defer second.Close()

	first.Warn("one")
	second.Warn("two")

	c := first.metrics.(*promCollector)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lines.WithLabelValues("shared", "WARN")))

	count, err := testutil.GatherAndCount(reg, "clog_lines_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	logger, err := New(bufferConfig("plain"))
	require.NoError(t, err)
	defer logger.Close()

	_, ok := logger.metrics.(nopCollector)
	assert.True(t, ok)
}
