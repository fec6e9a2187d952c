package metrics

import (
	"github.com/nmonzon/carmind/core/maintenance"
)

// Sink records repository mutations and computed alerts for observability.
type Sink interface {
	RecordMutation(op, ownerID string, err error) error
	RecordAlerts(ownerID string, alerts []maintenance.Alert) error
}

// NopSink discards all metrics.
type NopSink struct{}

func (NopSink) RecordMutation(string, string, error) error     { return nil }
func (NopSink) RecordAlerts(string, []maintenance.Alert) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordMutation forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordMutation(op, ownerID string, opErr error) error {
	for _, s := range m.Sinks {
		if err := s.RecordMutation(op, ownerID, opErr); err != nil {
			return err
		}
	}
	return nil
}

// RecordAlerts forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordAlerts(ownerID string, alerts []maintenance.Alert) error {
	for _, s := range m.Sinks {
		if err := s.RecordAlerts(ownerID, alerts); err != nil {
			return err
		}
	}
	return nil
}

// Config selects which metric sinks are active.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9464"
	}
}

// NewSink creates the configured sink composition. With nothing enabled a
// NopSink is returned.
func NewSink(cfg Config) (Sink, error) {
	var sinks []Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return NopSink{}, nil
	case 1:
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
