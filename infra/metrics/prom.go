package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nmonzon/carmind/core/maintenance"
)

// PromSink records repository and alert activity in Prometheus metrics.
type PromSink struct {
	mutations *prometheus.CounterVec
	alerts    *prometheus.GaugeVec
	overdue   *prometheus.GaugeVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The /metrics server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "carmind_repository_mutations_total",
		Help: "Total number of repository mutations by operation and result",
	}, []string{"op", "result"})
	alerts := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "carmind_maintenance_alerts",
		Help: "Open maintenance alerts per priority at last computation",
	}, []string{"owner_id", "priority"})
	overdue := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "carmind_overdue_alerts",
		Help: "Overdue maintenance alerts at last computation",
	}, []string{"owner_id"})

	if err := reg.Register(mutations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			mutations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(alerts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			alerts = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(overdue); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			overdue = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{mutations: mutations, alerts: alerts, overdue: overdue}, nil
}

// RecordMutation increments the mutation counter.
func (s *PromSink) RecordMutation(op, _ string, opErr error) error {
	result := "ok"
	if opErr != nil {
		result = "error"
	}
	s.mutations.WithLabelValues(op, result).Inc()
	return nil
}

// RecordAlerts sets the alert gauges from the latest computation.
func (s *PromSink) RecordAlerts(ownerID string, alerts []maintenance.Alert) error {
	counts := map[maintenance.Priority]int{}
	overdue := 0
	for _, a := range alerts {
		counts[a.Priority]++
		if a.Overdue {
			overdue++
		}
	}
	for _, p := range []maintenance.Priority{
		maintenance.PriorityLow, maintenance.PriorityMedium,
		maintenance.PriorityHigh, maintenance.PriorityUrgent,
	} {
		s.alerts.WithLabelValues(ownerID, p.String()).Set(float64(counts[p]))
	}
	s.overdue.WithLabelValues(ownerID).Set(float64(overdue))
	return nil
}
