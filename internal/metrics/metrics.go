package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls whether and how a Recorder publishes metrics.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`
}

// Recorder is the metrics surface every operation adapter call reports
// to. Both a nil *Recorder and the empty Recorder that New returns when
// Config.Enabled is false are safe to call methods on; they are no-ops.
type Recorder struct {
	registry *prometheus.Registry

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// New builds a Recorder. A disabled config still returns a non-nil
// *Recorder so callers never need a nil check before calling Observe;
// it just discards everything.
//
// If reg is non-nil, the Recorder registers its collectors into it
// instead of creating a private registry. Lets an embedding program
// fold these collectors into its own /metrics endpoint.
func New(cfg Config, reg *prometheus.Registry) *Recorder {
	if !cfg.Enabled {
		return &Recorder{}
	}

	registry := reg
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Recorder{
		registry: registry,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "operations_total",
			Help:      "Operation adapter calls, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Time spent waiting on the dispatcher per operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "errno_total",
			Help:      "Errors returned to the kernel, by operation and errno label.",
		}, []string{"operation", "errno"}),
	}

	registry.MustRegister(r.calls, r.duration, r.errors)
	return r
}

// Registry exposes the underlying registry for an HTTP /metrics handler
// to serve; nil if metrics are disabled.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Observe records one operation adapter call: its wall-clock duration
// and its outcome, keyed on the errno label the caller passes (empty for
// success). The bridge passes the errno's text description, such as
// "no such file or directory".
func (r *Recorder) Observe(operation string, took time.Duration, errnoName string) {
	if r == nil || r.registry == nil {
		return
	}

	outcome := "ok"
	if errnoName != "" {
		outcome = "error"
		r.errors.WithLabelValues(operation, errnoName).Inc()
	}
	r.calls.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(took.Seconds())
}
