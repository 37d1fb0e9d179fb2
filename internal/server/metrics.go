package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the room server does. Registered against a private
// registry so parallel test servers do not collide.
type Metrics struct {
	Registry        *prometheus.Registry
	EventsAdmitted  *prometheus.CounterVec
	EventsRejected  *prometheus.CounterVec
	ConnectedConns  prometheus.Gauge
	SnapshotsPushed prometheus.Counter
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		Registry: registry,
		EventsAdmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pokerroom_events_admitted_total",
			Help: "Events admitted and committed, by event type.",
		}, []string{"event"}),
		EventsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pokerroom_events_rejected_total",
			Help: "Events rejected by guards or reducers, by error code.",
		}, []string{"code"}),
		ConnectedConns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pokerroom_connections",
			Help: "Currently connected WebSocket clients.",
		}),
		SnapshotsPushed: factory.NewCounter(prometheus.CounterOpts{
			Name: "pokerroom_snapshots_pushed_total",
			Help: "State snapshots pushed to subscribers.",
		}),
	}
}
