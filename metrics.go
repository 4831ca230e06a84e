package clog

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Reasons reported by clog_dropped_lines_total.
const (
	dropUnusable    = "unusable"
	dropRateLimited = "rate_limited"
)

// collector records handler activity. nopCollector is used unless the
// logger is configured with a prometheus.Registerer.
type collector interface {
	written(handler string, level Level, n int)
	rolledOver(handler string)
	dropped(handler, reason string)
}

type nopCollector struct{}

func (nopCollector) written(string, Level, int) {}
func (nopCollector) rolledOver(string)          {}
func (nopCollector) dropped(string, string)     {}

type promCollector struct {
	lines     *prometheus.CounterVec
	bytes     *prometheus.CounterVec
	rollovers *prometheus.CounterVec
	drops     *prometheus.CounterVec
}

// newPromCollector registers the clog metrics on reg:
//   - clog_lines_total{handler,level}
//   - clog_bytes_total{handler}
//   - clog_rollovers_total{handler}
//   - clog_dropped_lines_total{handler,reason}
//
// Metrics already registered by another logger on the same registry are
// shared.
func newPromCollector(reg prometheus.Registerer) (*promCollector, error) {
	c := &promCollector{
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clog",
			Name:      "lines_total",
			Help:      "Number of log lines written per handler and level.",
		}, []string{"handler", "level"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clog",
			Name:      "bytes_total",
			Help:      "Number of bytes written per handler.",
		}, []string{"handler"}),
		rollovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clog",
			Name:      "rollovers_total",
			Help:      "Number of completed rollovers per handler.",
		}, []string{"handler"}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clog",
			Name:      "dropped_lines_total",
			Help:      "Number of accepted log lines that were not written.",
		}, []string{"handler", "reason"}),
	}

	for _, vec := range []**prometheus.CounterVec{&c.lines, &c.bytes, &c.rollovers, &c.drops} {
		if err := reg.Register(*vec); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
			*vec = existing
		}
	}
	return c, nil
}

func (c *promCollector) written(handler string, level Level, n int) {
	c.lines.WithLabelValues(handler, level.String()).Inc()
	c.bytes.WithLabelValues(handler).Add(float64(n))
}

func (c *promCollector) rolledOver(handler string) {
	c.rollovers.WithLabelValues(handler).Inc()
}

func (c *promCollector) dropped(handler, reason string) {
	c.drops.WithLabelValues(handler, reason).Inc()
}
