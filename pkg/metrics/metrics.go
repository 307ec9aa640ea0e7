// Package metrics records counters about validation passes.
package metrics

import "time"

// ValidationMetrics defines the interface for recording
// validation metrics.
type ValidationMetrics interface {
	// RecordConstraint records one settled constraint.
	RecordConstraint(field, rule string, passed bool)
	// RecordField records a concluded field pass.
	RecordField(field, status string, duration time.Duration)
	// RecordForm records a concluded form pass.
	RecordForm(form, status string, duration time.Duration)
	// AddInFlight adjusts the gauge of passes in progress.
	AddInFlight(delta int)
}

// NoopMetrics is a no-op implementation of ValidationMetrics
// used when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordConstraint(_, _ string, _ bool)     {}
func (NoopMetrics) RecordField(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordForm(_, _ string, _ time.Duration)  {}
func (NoopMetrics) AddInFlight(_ int)                        {}

// OrNoop returns m, or NoopMetrics when m is nil.
func OrNoop(m ValidationMetrics) ValidationMetrics {
	if m == nil {
		return NoopMetrics{}
	}
	return m
}
