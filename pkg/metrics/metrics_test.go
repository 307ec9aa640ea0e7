package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	var m ValidationMetrics = NoopMetrics{}
	m.RecordConstraint("email", "type", true)
	m.RecordField("email", "valid", time.Millisecond)
	m.RecordForm("signup", "invalid", time.Millisecond)
	m.AddInFlight(1)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopMetrics{}, OrNoop(nil))
	c := NewCounterMetrics()
	assert.Same(t, c, OrNoop(c))
}

func TestCounterMetrics(t *testing.T) {
	m := NewCounterMetrics()

	m.RecordConstraint("email", "type", true)
	m.RecordConstraint("email", "type", false)
	m.RecordConstraint("email", "type", false)
	m.RecordField("email", "invalid", 2*time.Millisecond)
	m.RecordField("email", "valid", 3*time.Millisecond)
	m.RecordForm("signup", "invalid", time.Millisecond)
	m.AddInFlight(2)
	m.AddInFlight(-1)

	assert.Equal(t, 1, m.ConstraintCount("email", "type", true))
	assert.Equal(t, 2, m.ConstraintCount("email", "type", false))
	assert.Equal(t, 1, m.FieldCount("email", "invalid"))
	assert.Equal(t, 1, m.FormCount("signup", "invalid"))
	assert.Equal(t, 0, m.FormCount("signup", "valid"))
	assert.Equal(t,
		[]time.Duration{2 * time.Millisecond, 3 * time.Millisecond},
		m.FieldDurations("email"),
	)
	assert.Equal(t, 1, m.InFlight())
}

func TestCounterMetrics_Concurrent(t *testing.T) {
	m := NewCounterMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordConstraint("f", "r", true)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, m.ConstraintCount("f", "r", true))
}
