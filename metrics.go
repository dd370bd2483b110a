package warps

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts teleport outcomes and timer lifecycle events.
// A nil *Metrics records nothing.
type Metrics struct {
	Teleports *prometheus.CounterVec
	Timers    *prometheus.CounterVec
}

// NewMetrics creates and registers the warps metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Teleports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warps_teleports_total",
				Help: "Total number of teleport attempts by status and reason",
			},
			[]string{"status", "reason"},
		),
		Timers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warps_timer_events_total",
				Help: "Total number of timer events by kind and event",
			},
			[]string{"kind", "event"},
		),
	}

	reg.MustRegister(m.Teleports)
	reg.MustRegister(m.Timers)

	return m
}

// Reasons attached to teleport outcomes.
const (
	reasonOK                = "ok"
	reasonUnsafe            = "unsafe"
	reasonMissingWorld      = "missing_world"
	reasonInsufficientFunds = "insufficient_funds"
	reasonMoveFailed        = "move_failed"
)

func (m *Metrics) observeTeleport(status Status, reason string) {
	if m == nil {
		return
	}
	m.Teleports.WithLabelValues(status.String(), reason).Inc()
}

func (m *Metrics) observeTimer(kind TimerKind, event string) {
	if m == nil {
		return
	}
	m.Timers.WithLabelValues(kind.String(), event).Inc()
}
