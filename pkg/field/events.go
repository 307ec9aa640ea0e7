package field

import (
	"sync"

	"digital.vasic.constraints/pkg/rule"
)

// EventType names a field lifecycle event.
type EventType string

const (
	// EventValidate fires before evaluation. Handlers may
	// replace Event.Value.
	EventValidate EventType = "field:validate"
	// EventConstraint fires after each constraint settles.
	EventConstraint EventType = "field:constraint"
	// EventValidated fires once a pass has concluded.
	EventValidated EventType = "field:validated"
	// EventSuccess fires before EventValidated for valid passes.
	EventSuccess EventType = "field:success"
	// EventError fires before EventValidated for invalid passes.
	EventError EventType = "field:error"
)

// Event is passed to handlers.
type Event struct {
	Type   EventType
	Field  *Field
	PassID string

	// Value is the value under validation. A field:validate
	// handler may replace it.
	Value rule.Value

	// Constraint is set for field:constraint events.
	Constraint *ValidationResult

	Result Result
}

// Handler receives field events. Handlers run synchronously on
// the goroutine that reached the lifecycle point.
type Handler func(e *Event)

type emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func (em *emitter) on(t EventType, h Handler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	if em.handlers == nil {
		em.handlers = make(map[EventType][]Handler)
	}
	em.handlers[t] = append(em.handlers[t], h)
}

func (em *emitter) off(t EventType) {
	em.mu.Lock()
	defer em.mu.Unlock()
	delete(em.handlers, t)
}

func (em *emitter) emit(e *Event) {
	em.mu.RLock()
	handlers := append([]Handler(nil), em.handlers[e.Type]...)
	em.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// On registers h for events of type t.
func (f *Field) On(t EventType, h Handler) {
	f.events.on(t, h)
}

// Off removes every handler registered for t.
func (f *Field) Off(t EventType) {
	f.events.off(t)
}
