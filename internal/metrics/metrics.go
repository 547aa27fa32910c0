// Package metrics records compilation counters on a private Prometheus
// registry and dumps them in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FocuswithJustin/annodex/core/compiler"
)

const namespace = "annodex"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	compiled   prometheus.Counter
	failed     *prometheus.CounterVec
	tokens     *prometheus.CounterVec
	suppressed prometheus.Counter
	degenerate prometheus.Counter
	ignored    prometheus.Counter
	positions  prometheus.Counter
	duration   prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		compiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_compiled_total",
			Help:      "Documents compiled into a token stream.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_failed_total",
			Help:      "Documents skipped because compilation failed.",
		}, []string{"reason"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Index tokens emitted.",
		}, []string{"kind"}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_suppressed_total",
			Help:      "Declared features skipped as blank or absent.",
		}),
		degenerate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spans_degenerate_total",
			Help:      "Spans overlapping no base unit.",
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spans_ignored_total",
			Help:      "Spans of layers absent from the catalog.",
		}),
		positions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "positions_total",
			Help:      "Base-unit positions indexed.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling one document.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.compiled, m.failed, m.tokens, m.suppressed,
		m.degenerate, m.ignored, m.positions, m.duration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCompiled records a successful compilation.
func (m *Metrics) ObserveCompiled(stats compiler.Stats, d time.Duration) {
	m.compiled.Inc()
	m.tokens.WithLabelValues("segment").Add(float64(stats.SegmentTokens))
	m.tokens.WithLabelValues("presence").Add(float64(stats.PresenceTokens))
	m.tokens.WithLabelValues("feature").Add(float64(stats.FeatureTokens))
	m.suppressed.Add(float64(stats.SuppressedFeatures))
	m.degenerate.Add(float64(stats.DegenerateSpans))
	m.ignored.Add(float64(stats.IgnoredSpans))
	m.positions.Add(float64(stats.Positions))
	m.duration.Observe(d.Seconds())
}

// ObserveFailed records a failed compilation under a reason label from
// errors.Reason.
func (m *Metrics) ObserveFailed(reason string) {
	m.failed.WithLabelValues(reason).Inc()
}

// WriteTextfile writes the current values to path in the text exposition
// format, replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
