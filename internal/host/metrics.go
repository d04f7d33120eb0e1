package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments sessions. A nil *Metrics records nothing.
type Metrics struct {
	changes  *prometheus.CounterVec
	frames   *prometheus.HistogramVec
	windows  *prometheus.GaugeVec
	failures *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tilecols",
			Name:      "changes_total",
			Help:      "Changes applied to strategy state.",
		}, []string{"strategy", "kind"}),
		frames: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tilecols",
			Name:      "frames_seconds",
			Help:      "Time spent computing frames.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 8),
		}, []string{"strategy"}),
		windows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tilecols",
			Name:      "windows",
			Help:      "Open windows per session.",
		}, []string{"session"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tilecols",
			Name:      "store_errors_total",
			Help:      "Failed state store operations.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.changes, m.frames, m.windows, m.failures)
	return m
}

func (m *Metrics) observeChange(strategy, kind string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(strategy, kind).Inc()
}

func (m *Metrics) observeFrames(strategy string, seconds float64) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(strategy).Observe(seconds)
}

func (m *Metrics) setWindows(session string, n int) {
	if m == nil {
		return
	}
	m.windows.WithLabelValues(session).Set(float64(n))
}

func (m *Metrics) storeFailed(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}
