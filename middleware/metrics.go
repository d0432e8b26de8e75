package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hvppyflow/hfnodes"
)

// MetricsCollector collects node call metrics.
type MetricsCollector interface {
	RecordCall(nodeID string, duration time.Duration, err error)
}

// Metrics reports every call to collector.
func Metrics(collector MetricsCollector) Middleware {
	return func(id string, node hfnodes.Node) hfnodes.Node {
		return &middlewareNode{
			inner: node,
			call: func(ctx context.Context, in hfnodes.Inputs) (hfnodes.Result, error) {
				start := time.Now()
				result, err := node.Call(ctx, in)
				collector.RecordCall(id, time.Since(start), err)
				return result, err
			},
		}
	}
}

// PrometheusCollector records calls as Prometheus metrics.
type PrometheusCollector struct {
	calls    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfnodes_node_calls_total",
				Help: "Total number of node calls",
			},
			[]string{"node"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hfnodes_node_errors_total",
				Help: "Total number of failed node calls",
			},
			[]string{"node"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hfnodes_node_call_duration_seconds",
				Help:    "Duration of node calls",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"node"},
		),
	}

	for _, col := range []prometheus.Collector{c.calls, c.errors, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordCall implements MetricsCollector.
func (c *PrometheusCollector) RecordCall(nodeID string, duration time.Duration, err error) {
	c.calls.WithLabelValues(nodeID).Inc()
	if err != nil {
		c.errors.WithLabelValues(nodeID).Inc()
	}
	c.duration.WithLabelValues(nodeID).Observe(duration.Seconds())
}
