package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "notifyd"

// Metrics groups the collectors of the dispatch engine. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	NotificationsCreated *prometheus.CounterVec
	ChannelDispatches    *prometheus.CounterVec
	RoutingMisses        prometheus.Counter
	SweepProcessed       prometheus.Counter
	SweepClaimConflicts  prometheus.Counter
	Connections          prometheus.Gauge
	RealtimeDropped      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notification records persisted, by type and dispatch mode.",
		}, []string{"type", "mode"}),
		ChannelDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channel_dispatches_total",
			Help:      "Channel dispatch attempts, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		RoutingMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_misses_total",
			Help:      "Inbound events whose topic has no route.",
		}),
		SweepProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_processed_total",
			Help:      "Deferred notifications claimed and dispatched by the sweep.",
		}),
		SweepClaimConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_claim_conflicts_total",
			Help:      "Due notifications skipped because another worker claimed them.",
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_connections",
			Help:      "Open realtime connections on this process.",
		}),
		RealtimeDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_events_dropped_total",
			Help:      "Realtime events dropped because a client buffer was full.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.NotificationsCreated,
		m.ChannelDispatches,
		m.RoutingMisses,
		m.SweepProcessed,
		m.SweepClaimConflicts,
		m.Connections,
		m.RealtimeDropped,
	)
	return m
}

// ObserveDispatch records one channel attempt.
func (m *Metrics) ObserveDispatch(channel string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "sent"
	}
	m.ChannelDispatches.WithLabelValues(channel, outcome).Inc()
}
