// Package monitor records validation events and streams them to
// live dashboards.
package monitor

import (
	"sync"
	"time"

	"digital.vasic.constraints/pkg/field"
	"digital.vasic.constraints/pkg/form"
)

// Collector captures validation events.
type Collector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    Stats
}

// Stats holds aggregate statistics over field passes.
type Stats struct {
	Passes    int           `json:"passes"`
	Valid     int           `json:"valid"`
	Invalid   int           `json:"invalid"`
	Skipped   int           `json:"skipped"`
	Forms     int           `json:"forms"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewCollector creates a new event collector.
func NewCollector() *Collector {
	return &Collector{
		events: make([]Event, 0, 64),
		stats:  Stats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *Collector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *Collector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventFieldValidated:
		c.stats.Passes++
		switch event.Status {
		case field.StatusValid.String():
			c.stats.Valid++
		case field.StatusInvalid.String():
			c.stats.Invalid++
		case field.StatusSkipped.String():
			c.stats.Skipped++
		}
	case EventFormValidated:
		c.stats.Forms++
	}
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Attach subscribes to the validated events of frm and of its
// current fields.
func (c *Collector) Attach(frm *form.Form) {
	for _, f := range frm.Fields() {
		c.AttachField(frm.Name(), f)
	}
	frm.On(form.EventValidated, func(e *form.Event) {
		ev := Event{
			Type:   EventFormValidated,
			Form:   frm.Name(),
			PassID: e.PassID,
			Status: e.Result.Status.String(),
		}
		for _, o := range e.Result.Fields {
			ev.Failures = append(ev.Failures, o.Field.Name())
		}
		c.Emit(ev)
	})
}

// AttachField subscribes to the validated events of f.
func (c *Collector) AttachField(formName string, f *field.Field) {
	f.On(field.EventValidated, func(e *field.Event) {
		ev := Event{
			Type:   EventFieldValidated,
			Form:   formName,
			Field:  f.Name(),
			PassID: e.PassID,
			Status: e.Result.Status.String(),
		}
		for _, r := range e.Result.Failures {
			ev.Failures = append(ev.Failures, r.Constraint.Name)
		}
		c.Emit(ev)
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *Collector) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = Stats{StartTime: time.Now()}
}
