package metrics

import (
	"sync"
	"time"
)

// CounterMetrics implements ValidationMetrics with in-memory
// counters. Exporting them to a metrics backend is left to the
// host application.
type CounterMetrics struct {
	mu          sync.Mutex
	constraints map[string]int
	fields      map[string]int
	forms       map[string]int
	durations   map[string][]time.Duration
	inFlight    int
}

// NewCounterMetrics creates an empty CounterMetrics.
func NewCounterMetrics() *CounterMetrics {
	return &CounterMetrics{
		constraints: make(map[string]int),
		fields:      make(map[string]int),
		forms:       make(map[string]int),
		durations:   make(map[string][]time.Duration),
	}
}

func outcome(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}

func (m *CounterMetrics) RecordConstraint(field, rule string, passed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constraints[field+":"+rule+":"+outcome(passed)]++
}

func (m *CounterMetrics) RecordField(field, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields[field+":"+status]++
	m.durations[field] = append(m.durations[field], duration)
}

func (m *CounterMetrics) RecordForm(form, status string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[form+":"+status]++
	m.durations["form:"+form] = append(m.durations["form:"+form], duration)
}

func (m *CounterMetrics) AddInFlight(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight += delta
}

// ConstraintCount returns how often rule passed or failed on
// field.
func (m *CounterMetrics) ConstraintCount(field, rule string, passed bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constraints[field+":"+rule+":"+outcome(passed)]
}

// FieldCount returns the number of field passes that concluded
// with status.
func (m *CounterMetrics) FieldCount(field, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fields[field+":"+status]
}

// FormCount returns the number of form passes that concluded
// with status.
func (m *CounterMetrics) FormCount(form, status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.forms[form+":"+status]
}

// FieldDurations returns the recorded pass durations of field.
func (m *CounterMetrics) FieldDurations(field string) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.durations[field]...)
}

// InFlight returns the number of passes in progress.
func (m *CounterMetrics) InFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}
