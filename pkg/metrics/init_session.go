package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "nodeglow_sessions_active",
			Help: "Current number of live viewer sessions",
		},
	)

	r.SessionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodeglow_sessions_total",
			Help: "Total number of viewer sessions created",
		},
	)

	r.SessionEventsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodeglow_session_events_total",
			Help: "Total number of interaction events recorded",
		},
		[]string{"kind"},
	)
}
