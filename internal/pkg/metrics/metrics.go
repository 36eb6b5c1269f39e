package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for clock activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ClockIns            prometheus.Counter
	ClockOuts           prometheus.Counter
	AdmissionRejections *prometheus.CounterVec
	PositionLogs        prometheus.Counter
	AdmissionDistance   prometheus.Histogram
	StaleOpenSessions   prometheus.Gauge
	AuditSinkFailures   *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ClockIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "uren_clock_ins_total",
			Help: "Total number of admitted clock-ins",
		}),
		ClockOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "uren_clock_outs_total",
			Help: "Total number of closed clock sessions",
		}),
		AdmissionRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "uren_admission_rejections_total",
			Help: "Total number of refused clock-ins by reason",
		}, []string{"reason"}),
		PositionLogs: factory.NewCounter(prometheus.CounterOpts{
			Name: "uren_position_logs_total",
			Help: "Total number of GPS pings stored",
		}),
		AdmissionDistance: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "uren_admission_distance_meters",
			Help:    "Distance between device and site at clock-in",
			Buckets: []float64{5, 10, 25, 50, 100, 250, 1000, 5000},
		}),
		StaleOpenSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "uren_stale_open_sessions",
			Help: "Open sessions older than the stale threshold at the last check",
		}),
		AuditSinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "uren_audit_sink_failures_total",
			Help: "Audit events a sink failed to accept",
		}, []string{"sink"}),
	}
}

func (m *Metrics) IncClockIn(distanceM float64) {
	if m == nil {
		return
	}
	m.ClockIns.Inc()
	m.AdmissionDistance.Observe(distanceM)
}

func (m *Metrics) IncClockOut() {
	if m == nil {
		return
	}
	m.ClockOuts.Inc()
}

func (m *Metrics) IncRejection(reason string) {
	if m == nil {
		return
	}
	m.AdmissionRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncPositionLog() {
	if m == nil {
		return
	}
	m.PositionLogs.Inc()
}

func (m *Metrics) SetStaleOpenSessions(n int) {
	if m == nil {
		return
	}
	m.StaleOpenSessions.Set(float64(n))
}

func (m *Metrics) IncAuditSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.AuditSinkFailures.WithLabelValues(sink).Inc()
}
