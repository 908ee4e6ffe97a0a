// Package metrics exposes round and session counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tilesweeper/internal/game"
)

// Metrics implements game.Observer on its own registry.
type Metrics struct {
	registry       *prometheus.Registry
	RoundsStarted  prometheus.Counter
	RoundsFinished *prometheus.CounterVec
	Reveals        prometheus.Counter
	Streams        prometheus.Gauge
}

// New registers the collectors under namespace. sessions, when non-nil,
// backs a live-sessions gauge.
func New(namespace string, sessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Rounds dealt, including the first round of each session",
		}),
		RoundsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_finished_total",
			Help:      "Rounds that reached a terminal state, by outcome",
		}, []string{"outcome"}),
		Reveals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reveals_total",
			Help:      "Accepted cell reveals",
		}),
		Streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_streams",
			Help:      "Open server-sent event streams",
		}),
	}
	m.registry.MustRegister(
		m.RoundsStarted,
		m.RoundsFinished,
		m.Reveals,
		m.Streams,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if sessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions held in memory",
		}, func() float64 { return float64(sessions()) }))
	}
	return m
}

var _ game.Observer = (*Metrics)(nil)

func (m *Metrics) RoundStarted() {
	m.RoundsStarted.Inc()
}

func (m *Metrics) RevealAccepted() {
	m.Reveals.Inc()
}

func (m *Metrics) RoundFinished(outcome game.Outcome) {
	m.RoundsFinished.WithLabelValues(outcome.String()).Inc()
}

// StreamOpened and StreamClosed track SSE connections.
func (m *Metrics) StreamOpened() { m.Streams.Inc() }
func (m *Metrics) StreamClosed() { m.Streams.Dec() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
